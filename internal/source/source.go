// Package source loads the text shown in the reader from a local file, a URL
// or standard input. PDFs are converted to plain text and HTML pages are
// reduced to their readable article body.
package source

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	readability "codeberg.org/readeck/go-readability/v2"
	"github.com/ledongthuc/pdf"
	"github.com/rs/zerolog"
)

const (
	defaultHTTPTimeout = 90 * time.Second
	maxBodyBytes       = 32 * 1024 * 1024

	userAgent    = "hoverlate/1.0"
	acceptHeader = "text/html,application/xhtml+xml,application/pdf,text/plain;q=0.9,*/*;q=0.8"
)

// ErrEmpty is returned when a source yields no readable text.
var ErrEmpty = errors.New("source has no readable text")

// Format is how a source was decoded.
type Format string

const (
	FormatText Format = "text"
	FormatHTML Format = "html"
	FormatPDF  Format = "pdf"
)

// Document is a loaded source ready to be shown.
type Document struct {
	Title  string
	Origin string
	Format Format
	Text   string
}

// Option configures a Loader.
type Option func(*Loader)

// WithHTTPClient sets the client used for URL sources.
func WithHTTPClient(client *http.Client) Option {
	return func(l *Loader) {
		l.client = client
	}
}

// WithCacheDir overrides the download cache location.
func WithCacheDir(dir string) Option {
	return func(l *Loader) {
		l.cacheDir = dir
	}
}

// WithStdin sets the reader used for the "-" source.
func WithStdin(r io.Reader) Option {
	return func(l *Loader) {
		l.stdin = r
	}
}

// WithLogger sets the logger for load events.
func WithLogger(logger zerolog.Logger) Option {
	return func(l *Loader) {
		l.logger = logger
	}
}

// Loader resolves source arguments into documents.
type Loader struct {
	client   *http.Client
	cacheDir string
	stdin    io.Reader
	logger   zerolog.Logger
	cache    *downloadCache
}

// NewLoader builds a Loader. The download cache directory is created lazily
// on the first URL load.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{
		stdin:  os.Stdin,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reads input, which is a path, an http(s) URL or "-" for stdin.
func (l *Loader) Load(ctx context.Context, input string) (Document, error) {
	input = strings.TrimSpace(input)
	var (
		doc Document
		err error
	)
	switch {
	case input == "" || input == "-":
		doc, err = l.loadReader("stdin", l.stdin)
	case isURL(input):
		doc, err = l.loadURL(ctx, input)
	default:
		doc, err = l.loadFile(input)
	}
	if err != nil {
		return Document{}, err
	}
	if strings.TrimSpace(doc.Text) == "" {
		return Document{}, fmt.Errorf("%s: %w", doc.Origin, ErrEmpty)
	}
	l.logger.Info().
		Str("origin", doc.Origin).
		Str("format", string(doc.Format)).
		Int("chars", len([]rune(doc.Text))).
		Msg("source loaded")
	return doc, nil
}

func isURL(input string) bool {
	lower := strings.ToLower(input)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

func (l *Loader) loadReader(name string, r io.Reader) (Document, error) {
	if r == nil {
		return Document{}, fmt.Errorf("no input provided")
	}
	data, err := io.ReadAll(io.LimitReader(r, maxBodyBytes))
	if err != nil {
		return Document{}, fmt.Errorf("read %s: %w", name, err)
	}
	return Document{Title: name, Origin: name, Format: FormatText, Text: NormalizeText(string(data))}, nil
}

func (l *Loader) loadFile(p string) (Document, error) {
	data, err := os.ReadFile(p)
	if err != nil {
		return Document{}, fmt.Errorf("read source: %w", err)
	}
	doc := Document{Title: filepath.Base(p), Origin: p}
	switch {
	case isPDF(strings.ToLower(filepath.Ext(p)), "", data):
		doc.Format = FormatPDF
		doc.Text, err = pdfText(data)
	case isHTML(strings.ToLower(filepath.Ext(p)), ""):
		abs, absErr := filepath.Abs(p)
		if absErr != nil {
			abs = p
		}
		doc.Format = FormatHTML
		doc.Text, err = htmlText(data, &url.URL{Scheme: "file", Path: filepath.ToSlash(abs)})
	default:
		doc.Format = FormatText
		doc.Text = NormalizeText(string(data))
	}
	return doc, err
}

func (l *Loader) loadURL(ctx context.Context, rawURL string) (Document, error) {
	pageURL, err := url.Parse(rawURL)
	if err != nil {
		return Document{}, fmt.Errorf("parse url: %w", err)
	}
	if l.cache == nil {
		cache, err := newDownloadCache(l.cacheDir, l.client)
		if err != nil {
			return Document{}, fmt.Errorf("open download cache: %w", err)
		}
		l.cache = cache
	}
	body, err := l.cache.Fetch(ctx, rawURL)
	if err != nil {
		return Document{}, err
	}
	data, err := os.ReadFile(body.Path)
	if err != nil {
		return Document{}, fmt.Errorf("read cached body: %w", err)
	}
	l.logger.Debug().Str("url", rawURL).Str("content_type", body.ContentType).Str("path", body.Path).Msg("download ready")

	doc := Document{Title: urlTitle(pageURL), Origin: rawURL}
	ext := strings.ToLower(path.Ext(pageURL.Path))
	contentType := strings.ToLower(strings.TrimSpace(body.ContentType))
	switch {
	case isPDF(ext, contentType, data):
		doc.Format = FormatPDF
		doc.Text, err = pdfText(data)
	case strings.HasPrefix(contentType, "text/plain"):
		doc.Format = FormatText
		doc.Text = NormalizeText(string(data))
	default:
		doc.Format = FormatHTML
		doc.Text, err = htmlText(data, pageURL)
	}
	return doc, err
}

func urlTitle(u *url.URL) string {
	base := path.Base(u.Path)
	if base == "/" || base == "." || base == "" {
		return u.Host
	}
	return u.Host + "/" + base
}

func isPDF(ext, contentType string, data []byte) bool {
	return ext == ".pdf" || strings.HasPrefix(contentType, "application/pdf") || bytes.HasPrefix(data, []byte("%PDF-"))
}

func isHTML(ext, contentType string) bool {
	return ext == ".html" || ext == ".htm" || ext == ".xhtml" || strings.HasPrefix(contentType, "text/html")
}

func pdfText(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open pdf: %w", err)
	}
	content, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("failed to extract pdf text: %w", err)
	}
	var builder strings.Builder
	if _, err := io.Copy(&builder, content); err != nil {
		return "", err
	}
	return CleanText(builder.String()), nil
}

func htmlText(data []byte, pageURL *url.URL) (string, error) {
	article, err := readability.FromReader(bytes.NewReader(data), pageURL)
	if err != nil {
		return "", fmt.Errorf("readability parse: %w", err)
	}
	var rendered bytes.Buffer
	if err := article.RenderText(&rendered); err != nil {
		return "", fmt.Errorf("render readability text: %w", err)
	}
	text := CleanText(rendered.String())
	if text == "" {
		text = CleanText(article.Excerpt())
	}
	return text, nil
}

// NormalizeText keeps the layout of plain text but normalizes line endings
// and strips trailing whitespace.
func NormalizeText(raw string) string {
	normalized := strings.ReplaceAll(raw, "\r\n", "\n")
	normalized = strings.ReplaceAll(normalized, "\r", "\n")
	lines := strings.Split(normalized, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.Trim(strings.Join(lines, "\n"), "\n")
}

// CleanText collapses in-line whitespace and separates non-empty lines with
// blank lines.
func CleanText(raw string) string {
	normalized := strings.ReplaceAll(raw, "\r\n", "\n")
	normalized = strings.ReplaceAll(normalized, "\r", "\n")

	lines := strings.Split(normalized, "\n")
	paragraphs := make([]string, 0, len(lines))
	for _, line := range lines {
		clean := strings.Join(strings.Fields(line), " ")
		if clean == "" {
			continue
		}
		paragraphs = append(paragraphs, clean)
	}
	return strings.Join(paragraphs, "\n\n")
}
