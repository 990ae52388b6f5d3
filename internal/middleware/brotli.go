package middleware

import (
	"net/http"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/gin-gonic/gin"
)

// BrotliConfig tunes the compression middleware.
type BrotliConfig struct {
	Quality int
	// MinLength is the smallest body worth compressing.
	MinLength int
	// Skipper bypasses compression for matching requests.
	Skipper func(c *gin.Context) bool
}

// DefaultBrotliConfig compresses bodies of 1 KiB and up at the default level.
var DefaultBrotliConfig = BrotliConfig{
	Quality:   brotli.DefaultCompression,
	MinLength: 1024,
}

// precompressed content types gain nothing from another pass.
var precompressed = []string{
	"application/zip",
	"application/vnd.openxmlformats-officedocument",
	"image/",
}

// brotliWriter holds output back until it knows whether the body is large
// enough and of a type worth compressing.
type brotliWriter struct {
	gin.ResponseWriter
	cfg     BrotliConfig
	buf     []byte
	br      *brotli.Writer
	decided bool
}

func (w *brotliWriter) Write(data []byte) (int, error) {
	if w.decided {
		if w.br != nil {
			return w.br.Write(data)
		}
		return w.ResponseWriter.Write(data)
	}

	w.buf = append(w.buf, data...)
	if len(w.buf) < w.cfg.MinLength {
		return len(data), nil
	}
	if err := w.decide(true); err != nil {
		return 0, err
	}
	return len(data), nil
}

func (w *brotliWriter) WriteString(s string) (int, error) {
	return w.Write([]byte(s))
}

// decide commits to compressing or not and flushes the held bytes.
func (w *brotliWriter) decide(largeEnough bool) error {
	w.decided = true
	if largeEnough && compressible(w.Header().Get("Content-Type")) {
		w.Header().Set("Content-Encoding", "br")
		w.Header().Del("Content-Length")
		w.br = brotli.NewWriterLevel(w.ResponseWriter, w.cfg.Quality)
		_, err := w.br.Write(w.buf)
		w.buf = nil
		return err
	}
	_, err := w.ResponseWriter.Write(w.buf)
	w.buf = nil
	return err
}

// finish flushes whatever is still buffered and closes the encoder.
func (w *brotliWriter) finish() error {
	if !w.decided {
		if len(w.buf) == 0 {
			return nil
		}
		return w.decide(false)
	}
	if w.br != nil {
		return w.br.Close()
	}
	return nil
}

func (w *brotliWriter) Flush() {
	if !w.decided && len(w.buf) > 0 {
		_ = w.decide(false)
	}
	if w.br != nil {
		_ = w.br.Flush()
	}
	w.ResponseWriter.Flush()
}

// Brotli compresses responses for clients that accept "br".
func Brotli() gin.HandlerFunc {
	return BrotliWithConfig(DefaultBrotliConfig)
}

// BrotliWithConfig is Brotli with explicit settings.
func BrotliWithConfig(cfg BrotliConfig) gin.HandlerFunc {
	if cfg.Quality < brotli.BestSpeed || cfg.Quality > brotli.BestCompression {
		cfg.Quality = brotli.DefaultCompression
	}
	if cfg.MinLength <= 0 {
		cfg.MinLength = DefaultBrotliConfig.MinLength
	}

	return func(c *gin.Context) {
		if isUpgrade(c) || (cfg.Skipper != nil && cfg.Skipper(c)) || !acceptsBrotli(c.Request) {
			c.Next()
			return
		}

		c.Header("Vary", "Accept-Encoding")
		bw := &brotliWriter{ResponseWriter: c.Writer, cfg: cfg}
		c.Writer = bw
		defer func() {
			if err := bw.finish(); err != nil {
				_ = c.Error(err)
			}
		}()
		c.Next()
	}
}

// isUpgrade reports WebSocket handshakes, which must reach the hijacker unwrapped.
func isUpgrade(c *gin.Context) bool {
	return strings.EqualFold(c.GetHeader("Upgrade"), "websocket")
}

func compressible(contentType string) bool {
	ct := strings.ToLower(contentType)
	for _, p := range precompressed {
		if strings.HasPrefix(ct, p) {
			return false
		}
	}
	return true
}

func acceptsBrotli(r *http.Request) bool {
	for _, enc := range strings.Split(r.Header.Get("Accept-Encoding"), ",") {
		// q-values are ignored.
		name, _, _ := strings.Cut(strings.TrimSpace(enc), ";")
		if strings.EqualFold(name, "br") {
			return true
		}
	}
	return false
}
