package http

import (
	"mime"
	"strconv"

	"github.com/NeuralTrust/MetaGuard/pkg/domain/metadata"
	"github.com/NeuralTrust/MetaGuard/pkg/infra/upload"
	"github.com/gofiber/fiber/v2"
)

const (
	HeaderMetadataCleaned = "X-Metadata-Cleaned"
	HeaderHashChanged     = "X-Hash-Changed"
	HeaderSHA256Before    = "X-SHA256-Before"
	HeaderSHA256After     = "X-SHA256-After"
)

// ExposedHeaders lists the clean response headers browsers need to read.
var ExposedHeaders = []string{
	fiber.HeaderContentDisposition,
	HeaderMetadataCleaned,
	HeaderHashChanged,
	HeaderSHA256Before,
	HeaderSHA256After,
}

func formUpload(c *fiber.Ctx, maxSize int64) (metadata.Upload, error) {
	fh, err := c.FormFile(fileField)
	if err != nil {
		return nil, metadata.ErrNoFile
	}
	return upload.FromMultipart(fh, maxSize)
}

// sendCleaned writes the redacted bytes as an attachment with the integrity headers.
func sendCleaned(c *fiber.Ctx, res *metadata.CleanResult) error {
	disposition := mime.FormatMediaType("attachment", map[string]string{"filename": res.CleanedName})
	if disposition == "" {
		disposition = `attachment; filename="cleaned_file"`
	}
	contentType := res.ContentType
	if contentType == "" {
		contentType = fiber.MIMEOctetStream
	}
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, disposition)
	c.Set(HeaderMetadataCleaned, "true")
	c.Set(HeaderHashChanged, strconv.FormatBool(res.Integrity.Changed))
	c.Set(HeaderSHA256Before, res.Integrity.HashBefore)
	c.Set(HeaderSHA256After, res.Integrity.HashAfter)
	return c.Status(fiber.StatusOK).Send(res.Redacted)
}

func fmtInt(v int64) string {
	return strconv.FormatInt(v, 10)
}
