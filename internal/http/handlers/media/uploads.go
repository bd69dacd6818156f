package media

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/dustin/go-humanize"
	"github.com/gabriel-vasile/mimetype"
	"github.com/princekumarofficial/portfolio-service/internal/types"
	mediatypes "github.com/princekumarofficial/portfolio-service/internal/types/media"
)

// FileField is the multipart field every upload endpoint reads.
const FileField = "file"

// sniffLen is how much of a part is buffered for content detection.
const sniffLen = 3072

// sizeLimitReader fails once more than max bytes have been read.
type sizeLimitReader struct {
	r        io.Reader
	max      int64
	read     int64
	exceeded bool
}

func (l *sizeLimitReader) Read(p []byte) (int, error) {
	if l.read >= l.max {
		var one [1]byte
		n, err := l.r.Read(one[:])
		if n > 0 {
			l.exceeded = true
			return 0, l.err()
		}
		return 0, err
	}
	if rest := l.max - l.read; int64(len(p)) > rest {
		p = p[:rest]
	}
	n, err := l.r.Read(p)
	l.read += int64(n)
	return n, err
}

func (l *sizeLimitReader) err() error {
	return fmt.Errorf("%w: limit is %s", mediatypes.ErrTooLarge, humanize.IBytes(uint64(l.max)))
}

// contentType trusts the part header unless it is missing or generic, in
// which case the leading bytes decide.
func contentType(part *multipart.Part, head []byte) string {
	declared := mediatypes.NormalizeContentType(part.Header.Get("Content-Type"))
	if declared != "" && declared != "application/octet-stream" {
		return declared
	}
	return mimetype.Detect(head).String()
}

// readUploads streams the file parts of a multipart request to fn one at a
// time, in request order, stopping after limit files (0 means no limit) or
// at the first error. It returns how many files fn accepted.
func readUploads(r *http.Request, maxSize int64, limit int, fn func(mediatypes.Upload) error) (int, error) {
	reader, err := r.MultipartReader()
	if err != nil {
		return 0, fmt.Errorf("%w: expected multipart/form-data: %s", types.ErrInvalidInput, err.Error())
	}

	count := 0
	for limit == 0 || count < limit {
		part, err := reader.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return count, fmt.Errorf("%w: malformed multipart body: %s", types.ErrInvalidInput, err.Error())
		}
		if part.FormName() != FileField || part.FileName() == "" {
			part.Close()
			continue
		}

		limited := &sizeLimitReader{r: part, max: maxSize}
		head := make([]byte, sniffLen)
		n, err := io.ReadFull(limited, head)
		if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
			part.Close()
			return count, err
		}
		head = head[:n]

		upload := mediatypes.Upload{
			Name:        part.FileName(),
			ContentType: contentType(part, head),
			Size:        -1,
			Body:        io.MultiReader(bytes.NewReader(head), limited),
		}

		err = fn(upload)
		part.Close()
		if limited.exceeded {
			return count, limited.err()
		}
		if err != nil {
			return count, err
		}
		count++
	}

	if count == 0 {
		return 0, fmt.Errorf("%w: at least one %q file part is required", types.ErrInvalidInput, FileField)
	}
	return count, nil
}
