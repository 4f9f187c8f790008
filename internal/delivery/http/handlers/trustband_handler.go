package handlers

import (
	"net/http"
	"strings"

	"github.com/LavaJover/trust-marketplace-service/internal/delivery/http/dto"
	"github.com/LavaJover/trust-marketplace-service/internal/trustband"
	"github.com/gin-gonic/gin"
)

// GetTrustBand describes a band given in either vocabulary. Unknown bands
// still get 200 with valid=false and the mapper's fallbacks.
func GetTrustBand(c *gin.Context) {
	band := strings.ToUpper(strings.TrimSpace(c.Param("band")))
	resp := dto.TrustBandResponse{
		Band:        band,
		Valid:       trustband.IsValidTrustBand(band),
		Description: trustband.GetTrustBandDescription(band),
	}
	if trustband.IsInternalBand(band) {
		resp.Internal = band
		resp.External = trustband.ToFRDBand(band)
	} else {
		resp.Internal = trustband.ToInternalBand(band)
		resp.External = trustband.ToFRDBand(resp.Internal)
		if resp.Valid {
			resp.External = band
		}
	}
	SuccessResponse(c, http.StatusOK, resp)
}
