package vision

import (
	"image"
	"net/http"

	// Accepted upload formats.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/gin-gonic/gin"
)

// ExtractHandler accepts a multipart image upload, runs extraction, and
// renders the outcome. Each outcome maps to a distinct response so the UI
// can tell "no events found" from "the call failed".
func ExtractHandler(client *Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		fileHeader, err := c.FormFile("image")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "image file is required"})
			return
		}

		file, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read upload"})
			return
		}
		defer file.Close()

		img, _, err := image.Decode(file)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "upload is not a supported image"})
			return
		}

		extraction := client.ExtractEvents(c.Request.Context(), img)
		switch extraction.Outcome {
		case OutcomeNotConfigured:
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"outcome": extraction.Outcome,
				"error":   "Azure OpenAI is not configured; check AZURE_OPENAI_ENDPOINT",
			})
		case OutcomeTransportError:
			c.JSON(http.StatusBadGateway, gin.H{
				"outcome": extraction.Outcome,
				"error":   truncate(extraction.Err.Error(), 200),
			})
		case OutcomeMalformedResponse:
			// Not an error to the pipeline: the raw text is surfaced for
			// manual inspection and the event list stays empty.
			c.JSON(http.StatusOK, gin.H{
				"outcome": extraction.Outcome,
				"events":  []EventDraft{},
				"raw":     extraction.Raw,
			})
		default:
			c.JSON(http.StatusOK, gin.H{
				"outcome": extraction.Outcome,
				"events":  extraction.Events,
				"raw":     extraction.Raw,
			})
		}
	}
}

// StatusHandler reports the extraction configuration for the settings page.
func StatusHandler(client *Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, client.Status())
	}
}
