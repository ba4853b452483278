package pdf

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/ledongthuc/pdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
)

// buildPDF writes a minimal PDF with one page per entry in pages.
// Each page entry lists the lines drawn on that page, top to bottom.
func buildPDF(t *testing.T, pages [][]string) []byte {
	t.Helper()

	streams := make([]string, len(pages))
	for i, lines := range pages {
		var content strings.Builder
		for j, line := range lines {
			fmt.Fprintf(&content, "BT /F1 12 Tf 72 %d Td (%s) Tj ET\n", 720-20*j, line)
		}
		streams[i] = content.String()
	}
	return buildPDFStreams(t, streams)
}

// buildPDFStreams writes a minimal PDF with one page per content stream.
func buildPDFStreams(t *testing.T, streams []string) []byte {
	t.Helper()

	n := len(streams)
	// Objects: 1 catalog, 2 pages, 3 font, then a page and content pair per page.
	objects := make([]string, 3+2*n)
	kids := make([]string, n)
	for i := range kids {
		kids[i] = fmt.Sprintf("%d 0 R", 4+2*i)
	}
	objects[0] = "<< /Type /Catalog /Pages 2 0 R >>"
	objects[1] = fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), n)
	objects[2] = "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>"

	for i, stream := range streams {
		objects[3+2*i] = fmt.Sprintf(
			"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>",
			5+2*i,
		)
		objects[4+2*i] = fmt.Sprintf("<< /Length %d >>\nstream\n%sendstream", len(stream), stream)
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return buf.Bytes()
}

func TestNew(t *testing.T) {
	extractor := New()
	require.NotNil(t, extractor)

	var _ driven.Extractor = extractor
}

func TestSupportedMIMETypes(t *testing.T) {
	assert.Equal(t, []string{"application/pdf"}, New().SupportedMIMETypes())
}

func TestSupportedExtensions(t *testing.T) {
	assert.Equal(t, []string{".pdf"}, New().SupportedExtensions())
}

func TestExtract_NilDocument(t *testing.T) {
	result, err := New().Extract(context.Background(), nil)

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Nil(t, result)
}

func TestExtract_InvalidBytes(t *testing.T) {
	tests := []struct {
		name    string
		content []byte
	}{
		{"empty", []byte{}},
		{"plain text", []byte("this is not a pdf at all")},
		{"truncated header", []byte("%PDF-1.4\n1 0 obj\n<<")},
		{"png signature", []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := &domain.RawDocument{Name: "broken.pdf", MediaType: "application/pdf", Content: tt.content}

			result, err := New().Extract(context.Background(), raw)

			assert.ErrorIs(t, err, domain.ErrExtraction)
			assert.Nil(t, result)
		})
	}
}

func TestExtract_SinglePage(t *testing.T) {
	raw := &domain.RawDocument{
		Name:    "memo.pdf",
		Content: buildPDF(t, [][]string{{"Quarterly memo"}}),
	}

	result, err := New().Extract(context.Background(), raw)

	require.NoError(t, err)
	assert.Equal(t, 1, result.PageCount)
	assert.Equal(t, "Quarterly memo\n\n[Page 1]\n\n", result.Text)
}

func TestExtract_PagesInOrderWithMarkers(t *testing.T) {
	raw := &domain.RawDocument{
		Name: "report.pdf",
		Content: buildPDF(t, [][]string{
			{"Introduction", "Scope of work"},
			{"Results"},
			{"Appendix"},
		}),
	}

	result, err := New().Extract(context.Background(), raw)

	require.NoError(t, err)
	assert.Equal(t, 3, result.PageCount)
	assert.Equal(t,
		"Introduction Scope of work\n\n[Page 1]\n\n"+
			"Results\n\n[Page 2]\n\n"+
			"Appendix\n\n[Page 3]\n\n",
		result.Text,
	)
}

func TestExtract_EmptyPageStillMarked(t *testing.T) {
	raw := &domain.RawDocument{
		Name:    "scan.pdf",
		Content: buildPDF(t, [][]string{{"Cover"}, {}}),
	}

	result, err := New().Extract(context.Background(), raw)

	require.NoError(t, err)
	assert.Equal(t, "Cover\n\n[Page 1]\n\n\n\n[Page 2]\n\n", result.Text)
}

func TestExtract_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	raw := &domain.RawDocument{Name: "a.pdf", Content: buildPDF(t, [][]string{{"x"}})}
	_, err := New().Extract(ctx, raw)

	assert.ErrorIs(t, err, context.Canceled)
}

func TestExtract_SameBaselineGapSplitsItems(t *testing.T) {
	raw := &domain.RawDocument{
		Name: "invoice.pdf",
		Content: buildPDFStreams(t, []string{
			"BT /F1 12 Tf 72 720 Td (Total) Tj ET\n" +
				"BT /F1 12 Tf 300 720 Td (42.00) Tj ET\n" +
				"BT /F1 12 Tf 72 700 Td (Due on receipt) Tj ET\n",
		}),
	}

	result, err := New().Extract(context.Background(), raw)

	require.NoError(t, err)
	assert.Equal(t, "Total 42.00 Due on receipt\n\n[Page 1]\n\n", result.Text)
}

func TestStartsItem(t *testing.T) {
	at := func(x, y, w float64) pdf.Text {
		return pdf.Text{X: x, Y: y, W: w, FontSize: 10, S: "a"}
	}

	tests := []struct {
		name       string
		prev, next pdf.Text
		want       bool
	}{
		{"next glyph on the line", at(10, 700, 5), at(15, 700, 5), false},
		{"small kerning gap", at(10, 700, 5), at(16, 700, 5), false},
		{"new baseline", at(10, 700, 5), at(10, 688, 5), true},
		{"pen moves back", at(200, 700, 5), at(72, 700, 5), true},
		{"column gap", at(10, 700, 5), at(40, 700, 5), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, startsItem(tt.prev, tt.next))
		})
	}
}
