package api

import (
	"net/http/httputil"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// DumpRequest traces incoming requests when trace mode is on. Bodies are
// skipped: case ingestion payloads can run to thousands of records.
func (s *Server) DumpRequest(c *gin.Context) {
	if s.traceMode {
		fields := log.Fields{
			"prefix":    "gin",
			"method":    c.Request.Method,
			"path":      c.Request.URL.Path,
			"query":     c.Request.URL.RawQuery,
			"client_ip": c.ClientIP(),
		}

		dump, err := httputil.DumpRequest(c.Request, false)
		if err != nil {
			log.WithFields(fields).WithError(err).Error("fail to dump request")
		} else {
			fields["req"] = string(dump)
			log.WithFields(fields).Debug("incoming request")
		}
	}

	c.Next()
}
