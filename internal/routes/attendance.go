package routes

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"attendance-capture/internal/device"
	"attendance-capture/internal/fieldstore"
	"attendance-capture/internal/notify"
	"attendance-capture/internal/pipeline"
)

// Attendance photo size cap. The image host enforces its own limit too.
const maxPhotoBytes = 10 << 20

func AttendanceRoutes(r *gin.RouterGroup, p *pipeline.Pipeline, fields fieldstore.Store, board *notify.Board) {

	// Form page, prepopulated from the persisted fields
	r.GET("/", func(c *gin.Context) {
		ctx := c.Request.Context()

		name, _ := fields.Get(ctx, fieldstore.KeyName)
		subdivision, _ := fields.Get(ctx, fieldstore.KeySubdivision)

		HTML(c, http.StatusOK, "form.html.tmpl", gin.H{
			"Name":        name,
			"Subdivision": subdivision,
		})
	})

	// Current notice for the shared notification region
	r.GET("/notification.json", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"notice": board.Current(),
			"busy":   board.Busy(),
		})
	})

	r.POST("/submit", func(c *gin.Context) {
		name := c.PostForm("name")
		subdivision := c.PostForm("subdivision")
		attendanceType := c.PostForm("attendanceType")

		if name == "" || subdivision == "" {
			AbortWithError(c, ErrMissingParameter)
			return
		}
		if attendanceType != "in" && attendanceType != "out" {
			AbortWithError(c, ErrInvalidAttendanceType)
			return
		}

		fileHeader, err := c.FormFile("photo")
		if err != nil {
			AbortWithError(c, ErrMissingPhoto)
			return
		}
		if fileHeader.Size > maxPhotoBytes {
			AbortWithError(c, NewHTTPError(http.StatusRequestEntityTooLarge, nil, "Photo is too large"))
			return
		}

		photo, err := fileHeader.Open()
		if err != nil {
			slog.Error("Failed to open uploaded photo", "error", err)
			AbortWithError(c, ErrInternalServer)
			return
		}
		defer photo.Close()

		sub := pipeline.Submission{
			Name:           name,
			Subdivision:    subdivision,
			AttendanceType: attendanceType,
			PhotoName:      fileHeader.Filename,
			Photo:          photo,
			Latitude:       c.PostForm("latitude"),
			Longitude:      c.PostForm("longitude"),
			Email:          c.PostForm("email"),
			Device:         device.FromRequest(c.Request),
		}

		if err := p.Submit(c.Request.Context(), sub); err != nil {
			// The board already carries the generic error notice; the
			// response just mirrors the outcome.
			AbortWithError(c, NewHTTPError(http.StatusBadGateway, err, pipeline.MsgError))
			return
		}

		if c.GetHeader("Accept") == "application/json" {
			c.JSON(http.StatusOK, gin.H{"success": true, "message": pipeline.MsgSuccess})
			return
		}
		// Plain form post: back to the (cleared, re-autofilled) form
		c.Redirect(http.StatusSeeOther, "/")
	})
}
