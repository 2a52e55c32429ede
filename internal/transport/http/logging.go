package http

import (
	"encoding/json"
	"log"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// registerLogging emits one JSON line per request. Uploads and CSV downloads
// can be megabytes, so bodies are summarized by size, never logged.
func registerLogging(e *echo.Echo) {
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:           true,
		LogStatus:        true,
		LogMethod:        true,
		LogLatency:       true,
		LogError:         true,
		LogContentLength: true,
		LogResponseSize:  true,
		HandleError:      true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			payload := struct {
				Time      string `json:"time"`
				LatencyMS int64  `json:"latency_ms"`
				Request   struct {
					Method string `json:"method"`
					URI    string `json:"uri"`
					Bytes  string `json:"bytes,omitempty"`
				} `json:"request"`
				Response struct {
					Status int    `json:"status"`
					Bytes  int64  `json:"bytes"`
					Error  string `json:"error,omitempty"`
				} `json:"response"`
			}{
				Time:      v.StartTime.Format(time.RFC3339),
				LatencyMS: v.Latency.Milliseconds(),
			}

			payload.Request.Method = v.Method
			payload.Request.URI = v.URI
			if summary := summarizeRequestBody(c, v.ContentLength); summary != "" {
				payload.Request.Bytes = summary
			}

			payload.Response.Status = v.Status
			payload.Response.Bytes = v.ResponseSize
			if v.Error != nil {
				payload.Response.Error = v.Error.Error()
			}

			buf, err := json.Marshal(payload)
			if err != nil {
				return err
			}
			log.Println(string(buf))
			return nil
		},
	}))
}

func summarizeRequestBody(c echo.Context, contentLength string) string {
	if contentLength == "" || contentLength == "0" {
		return ""
	}
	contentType := c.Request().Header.Get(echo.HeaderContentType)
	if strings.HasPrefix(strings.ToLower(contentType), "multipart/form-data") {
		return contentLength + " (multipart)"
	}
	return contentLength
}
