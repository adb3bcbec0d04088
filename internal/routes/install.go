package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"attendance-capture/internal/install"
	"attendance-capture/internal/jwt"
	"attendance-capture/internal/utils"
)

// InstallRoutes exposes the "add to home screen" offer lifecycle. The
// browser defers its install prompt; these endpoints let the page mint an
// offer, show it (inline or as a QR for a second device) and redeem it.
func InstallRoutes(r *gin.RouterGroup, installer *install.Installer) {

	r.GET("/install/offer", func(c *gin.Context) {
		offer, err := installer.NewOffer()
		if err != nil {
			AbortWithError(c, ErrInternalServer)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"offer":      offer,
			"prompt_url": utils.UrlFor(c, "/install/prompt"),
		})
	})

	r.GET("/install/qr", func(c *gin.Context) {
		offer, err := installer.NewOffer()
		if err != nil {
			AbortWithError(c, ErrInternalServer)
			return
		}

		url := utils.UrlFor(c, "/install/prompt?token="+offer.Token)
		png, err := installer.QR(url)
		if err != nil {
			AbortWithError(c, ErrInternalServer)
			return
		}

		c.Data(http.StatusOK, "image/png", png)
	})

	// QR target. Checks the handle is still live without consuming it;
	// redeeming is the POST below.
	r.GET("/install/prompt", func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			AbortWithError(c, ErrMissingParameter)
			return
		}

		claims, err := jwt.PeekInstallOfferJWT(token)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"offer_id":   claims.OfferID,
			"expires_at": claims.ExpiresAt,
		})
	})

	r.POST("/install/prompt", func(c *gin.Context) {
		token := c.PostForm("token")
		if token == "" {
			token = c.Query("token")
		}
		if token == "" {
			AbortWithError(c, ErrMissingParameter)
			return
		}

		outcome, err := installer.Prompt(token, install.Outcome(c.PostForm("outcome")))
		if err != nil {
			switch err {
			case install.ErrInvalidOutcome:
				AbortWithError(c, ErrInvalidParameter)
			case install.ErrNoPendingOffer:
				AbortWithError(c, ErrOfferNotFound)
			default:
				AbortWithError(c, err)
			}
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"outcome":   outcome,
			"installed": installer.Installed(),
		})
	})

	// Platform-side installed signal. Clears any pending offer so the
	// control disappears.
	r.POST("/install/installed", func(c *gin.Context) {
		installer.Dismiss()
		c.JSON(http.StatusOK, gin.H{"installed": installer.Installed()})
	})

	r.GET("/install/available.json", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"available": installer.Available(),
			"installed": installer.Installed(),
		})
	})
}
