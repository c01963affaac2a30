package ai

import "github.com/kiranshivaraju/radassist/pkg/models"

// Provider sentinels live next to models.Backend so provider subpackages can
// return them without importing this package.
var (
	ErrProviderUnavailable = models.ErrProviderUnavailable
	ErrInferenceTimeout    = models.ErrInferenceTimeout
	ErrInvalidResponse     = models.ErrInvalidResponse
	ErrQuotaExceeded       = models.ErrQuotaExceeded
)
