package render

import (
	"encoding/json"
	"net/http"

	"github.com/Laisky/errors/v2"
	"github.com/gin-gonic/gin"
)

// JSONLine writes v as a single newline-terminated JSON document and flushes
// it to the client immediately.
func JSONLine(c *gin.Context, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return errors.Wrap(err, "marshal stream line")
	}
	data = append(data, '\n')
	return Chunk(c, data)
}

// Chunk writes b and flushes the response so the client observes the chunk
// before the handler produces the next one.
func Chunk(c *gin.Context, b []byte) error {
	if _, err := c.Writer.Write(b); err != nil {
		return errors.Wrap(err, "write chunk")
	}
	if flusher, ok := c.Writer.(http.Flusher); ok {
		flusher.Flush()
	}
	return nil
}
