package handler

import (
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"osfr/internal/service"
)

// serveDownload streams an opened artifact without buffering it. Seekable
// objects go through http.ServeContent so range and conditional requests work.
func serveDownload(c echo.Context, dl *service.Download, disposition string) error {
	defer dl.Object.Close()

	header := c.Response().Header()
	header.Set(echo.HeaderContentDisposition, contentDisposition(disposition, dl.Filename))
	header.Set(echo.HeaderContentType, dl.ContentType)
	header.Set("X-Content-Type-Options", "nosniff")

	if rs, ok := dl.Object.ReadCloser.(io.ReadSeeker); ok {
		http.ServeContent(c.Response(), c.Request(), dl.Filename, dl.Object.ModTime, rs)
		return nil
	}

	if dl.Object.Size > 0 {
		header.Set(echo.HeaderContentLength, strconv.FormatInt(dl.Object.Size, 10))
	}
	return c.Stream(http.StatusOK, dl.ContentType, dl.Object)
}

// contentDisposition always quotes plain ASCII names; anything else goes
// through mime.FormatMediaType, which escapes or RFC 2231 encodes it.
func contentDisposition(disposition, filename string) string {
	if plainFilename(filename) {
		return disposition + `; filename="` + filename + `"`
	}
	if cd := mime.FormatMediaType(disposition, map[string]string{"filename": filename}); cd != "" {
		return cd
	}
	return disposition
}

func plainFilename(name string) bool {
	if name == "" {
		return false
	}
	for i := 0; i < len(name); i++ {
		b := name[i]
		if b < 0x20 || b > 0x7e || b == '"' || b == '\\' {
			return false
		}
	}
	return true
}
