// Package epub turns an EPUB book into titled plain-text sections, one per
// leaf entry of its table of contents.
package epub

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"path"
	"strings"

	apperr "github.com/CazadorHJT/MCAT-Prep-App/internal/pkg/errors"
)

type Section struct {
	Title   string
	Content string
}

const (
	containerPath = "META-INF/container.xml"
	mediaTypeNCX  = "application/x-dtbncx+xml"
)

// Book is an opened EPUB container with its manifest indexed by archive path.
type Book struct {
	files    map[string]*zip.File
	opfPath  string
	manifest []manifestItem
	tocID    string
}

type manifestItem struct {
	ID         string
	Href       string
	MediaType  string
	Properties string
}

// ExtractChapters reads the book at path and returns one section per TOC leaf, in reading order.
func ExtractChapters(path string) ([]Section, error) {
	b, closeFn, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer closeFn()
	return b.Sections()
}

// Open opens the archive and parses its container and package documents.
// The returned func releases the archive.
func Open(p string) (*Book, func() error, error) {
	rc, err := zip.OpenReader(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil, fmt.Errorf("epub %s: %w", p, apperr.ErrNotFound)
		}
		return nil, nil, fmt.Errorf("epub %s: open archive: %v: %w", p, err, apperr.ErrParse)
	}
	b, err := load(&rc.Reader)
	if err != nil {
		_ = rc.Close()
		return nil, nil, fmt.Errorf("epub %s: %w", p, err)
	}
	return b, rc.Close, nil
}

// OpenBytes parses an EPUB held in memory.
func OpenBytes(data []byte) (*Book, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("epub: open archive: %v: %w", err, apperr.ErrParse)
	}
	return load(zr)
}

func load(zr *zip.Reader) (*Book, error) {
	b := &Book{files: make(map[string]*zip.File, len(zr.File))}
	for _, f := range zr.File {
		b.files[f.Name] = f
	}

	raw, ok, err := b.read(containerPath)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("missing %s: %w", containerPath, apperr.ErrParse)
	}
	var container struct {
		Rootfiles []struct {
			FullPath string `xml:"full-path,attr"`
		} `xml:"rootfiles>rootfile"`
	}
	if err := xml.Unmarshal(raw, &container); err != nil {
		return nil, fmt.Errorf("container: %v: %w", err, apperr.ErrParse)
	}
	if len(container.Rootfiles) == 0 || container.Rootfiles[0].FullPath == "" {
		return nil, fmt.Errorf("container lists no package document: %w", apperr.ErrParse)
	}
	b.opfPath = container.Rootfiles[0].FullPath

	raw, ok, err = b.read(b.opfPath)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("missing package document %s: %w", b.opfPath, apperr.ErrParse)
	}
	var pkg struct {
		Items []struct {
			ID         string `xml:"id,attr"`
			Href       string `xml:"href,attr"`
			MediaType  string `xml:"media-type,attr"`
			Properties string `xml:"properties,attr"`
		} `xml:"manifest>item"`
		Spine struct {
			Toc string `xml:"toc,attr"`
		} `xml:"spine"`
	}
	if err := xml.Unmarshal(raw, &pkg); err != nil {
		return nil, fmt.Errorf("package document: %v: %w", err, apperr.ErrParse)
	}
	base := path.Dir(b.opfPath)
	for _, it := range pkg.Items {
		b.manifest = append(b.manifest, manifestItem{
			ID:         it.ID,
			Href:       resolve(base, it.Href),
			MediaType:  it.MediaType,
			Properties: it.Properties,
		})
	}
	b.tocID = pkg.Spine.Toc
	return b, nil
}

// Sections flattens the TOC and resolves each leaf to the plain text of its document.
func (b *Book) Sections() ([]Section, error) {
	nodes, err := b.TOC()
	if err != nil {
		return nil, err
	}
	leaves := Flatten(nodes)
	out := make([]Section, 0, len(leaves))
	for _, leaf := range leaves {
		content, err := b.Text(leaf.Href)
		if err != nil {
			return nil, err
		}
		out = append(out, Section{Title: leaf.Title, Content: content})
	}
	return out, nil
}

// Text returns the visible text of the document at archive path p.
// A path that is not in the archive yields "".
func (b *Book) Text(p string) (string, error) {
	raw, ok, err := b.read(p)
	if err != nil || !ok {
		return "", err
	}
	return ExtractText(raw), nil
}

func (b *Book) read(name string) ([]byte, bool, error) {
	f, ok := b.files[name]
	if !ok {
		return nil, false, nil
	}
	rc, err := f.Open()
	if err != nil {
		return nil, false, fmt.Errorf("open %s: %v: %w", name, err, apperr.ErrParse)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, false, fmt.Errorf("read %s: %v: %w", name, err, apperr.ErrParse)
	}
	return data, true, nil
}

// resolve joins a document-relative href onto base, dropping any fragment.
func resolve(base, href string) string {
	href, _, _ = strings.Cut(href, "#")
	if unescaped, err := url.PathUnescape(href); err == nil {
		href = unescaped
	}
	if href == "" {
		return ""
	}
	if strings.HasPrefix(href, "/") {
		return strings.TrimPrefix(path.Clean(href), "/")
	}
	joined := path.Join(base, href)
	return strings.TrimPrefix(joined, "./")
}
