package handler

import (
	"io"
	"mime/multipart"

	"openbook_server/internal/infrastructure/filestore"
	"openbook_server/pkg/constants"
	"openbook_server/pkg/errorx"

	"github.com/gin-gonic/gin"
)

var files filestore.Store

// SetFileStore injects the upload store. Called once at startup.
func SetFileStore(s filestore.Store) {
	files = s
}

// storeFormFile persists the named multipart file if present and
// returns its file id, or "" when the field is absent.
func storeFormFile(c *gin.Context, field string) (string, error) {
	header, err := c.FormFile(field)
	if err != nil {
		return "", nil
	}
	if header.Size > constants.FILE_MAX_SIZE {
		return "", errorx.Newf(errorx.CodeInvalidParam, "file exceeds %d bytes", constants.FILE_MAX_SIZE)
	}
	return storeUpload(header)
}

// storeFormFiles persists every file under the named field.
func storeFormFiles(c *gin.Context, field string) ([]string, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, nil
	}
	headers := form.File[field]
	ids := make([]string, 0, len(headers))
	for _, header := range headers {
		if header.Size > constants.FILE_MAX_SIZE {
			return nil, errorx.Newf(errorx.CodeInvalidParam, "file exceeds %d bytes", constants.FILE_MAX_SIZE)
		}
		id, err := storeUpload(header)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func storeUpload(header *multipart.FileHeader) (string, error) {
	f, err := header.Open()
	if err != nil {
		return "", errorx.Wrap(err, errorx.CodeInvalidParam, "open uploaded file")
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return "", errorx.Wrap(err, errorx.CodeServerBusy, "read uploaded file")
	}
	return files.Store(data)
}
