package gin

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	sharederrors "github.com/quickai/server/internal/shared/errors"
	"github.com/quickai/server/internal/shared/middleware"
	"github.com/quickai/server/internal/shared/response"
)

// requireUserID returns the authenticated user id, writing a 401 envelope
// when the auth middleware did not run.
func requireUserID(c *gin.Context) (string, bool) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		response.FromAppError(c, sharederrors.Unauthorized("Not authenticated"))
		return "", false
	}
	return userID, true
}

// readUpload reads an optional multipart file. A missing field yields nil.
func readUpload(c *gin.Context, field string, maxSize int64) ([]byte, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		if err == http.ErrMissingFile {
			return nil, nil
		}
		return nil, fmt.Errorf("read %s: %w", field, err)
	}
	if maxSize > 0 && fh.Size > maxSize {
		return nil, fmt.Errorf("%s exceeds %d bytes", field, maxSize)
	}

	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", field, err)
	}
	defer f.Close()

	r := io.Reader(f)
	if maxSize > 0 {
		r = io.LimitReader(f, maxSize+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", field, err)
	}
	if maxSize > 0 && int64(len(data)) > maxSize {
		return nil, fmt.Errorf("%s exceeds %d bytes", field, maxSize)
	}
	return data, nil
}

func invalidInput(c *gin.Context, message string) {
	response.FromAppError(c, sharederrors.InvalidInput(message))
}
