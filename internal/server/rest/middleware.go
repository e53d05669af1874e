package rest

import (
	"bytes"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/personapi/internal/common"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/google/uuid"
)

const (
	requestIDHeader = "X-Request-ID"
	maxBodyBytes    = 1 << 20

	ctxRequestID = "requestID"
	ctxPersonID  = "personID"
	ctxEmail     = "email"
)

// requestID keeps a well-formed client X-Request-ID or mints a new one.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		c.Set(ctxRequestID, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func (s *Server) accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		s.logger.Info(c.Request.Context(), "http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start).String(),
			"request_id", c.GetString(ctxRequestID),
		)
	}
}

func (s *Server) recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, err any) {
		s.logger.Error(c.Request.Context(), "panic in handler", "error", err, "path", c.Request.URL.Path)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": msgInternal})
	})
}

func limitBody() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)
		}
		c.Next()
	}
}

// authGate admits requests carrying a valid access token and stores the
// caller's identity in the gin context.
func (s *Server) authGate() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := accessToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": msgUnauthorized})
			return
		}

		id, err := s.tokens.Verify(token)
		if err != nil {
			s.logger.Debug(c.Request.Context(), "token rejected", "error", err.Error())
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": msgUnauthorized})
			return
		}

		c.Set(ctxPersonID, id.PersonID)
		c.Set(ctxEmail, id.Email)
		c.Next()
	}
}

// accessToken looks in the cookie, then the Authorization bearer, then
// the x-access-token header.
func accessToken(c *gin.Context) string {
	if v, err := c.Cookie(common.AccessTokenCookieName); err == nil && v != "" {
		return v
	}
	if h := c.GetHeader("Authorization"); len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return c.GetHeader(common.AccessTokenHeaderName)
}

// emailGate rejects a registration whose email cannot be verified. The
// body is read once and put back for the handler. A body without an email
// is passed on so validation can report it.
func (s *Server) emailGate() gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := readBody(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": msgInvalidBody})
			return
		}

		var payload struct {
			Email string `json:"email"`
		}
		if err := binding.JSON.BindBody(body, &payload); err != nil || payload.Email == "" {
			c.Next()
			return
		}

		if err := s.emails.Verify(c.Request.Context(), payload.Email); err != nil {
			s.logger.Warn(c.Request.Context(), "email verification failed", "email", payload.Email, "error", err.Error())
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": msgEmailUnverified})
			return
		}

		c.Next()
	}
}

func readBody(c *gin.Context) ([]byte, error) {
	if c.Request.Body == nil {
		return nil, nil
	}
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return nil, err
	}
	c.Request.Body = io.NopCloser(bytes.NewReader(body))
	return body, nil
}

// bindJSON decodes the request body into obj. An empty body decodes as {}.
func bindJSON(c *gin.Context, obj any) error {
	body, err := readBody(c)
	if err != nil {
		return err
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	return binding.JSON.BindBody(body, obj)
}
