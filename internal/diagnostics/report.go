package diagnostics

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"gopkg.in/yaml.v3"

	"github.com/anas-shakeel/bmpfx/internal/bmp"
)

// Format represents the report output format.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat parses a string into a Format, returning an error if invalid.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "text", "table", "":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("invalid output format: %q (valid: text, json, yaml)", s)
	}
}

// Report is a flat, serializable view of a bitmap's metadata.
type Report struct {
	Filename      string `json:"filename,omitempty" yaml:"filename,omitempty"`
	Type          string `json:"type" yaml:"type"`
	FileSize      uint32 `json:"file_size" yaml:"file_size"`
	Reserved1     uint16 `json:"reserved1" yaml:"reserved1"`
	Reserved2     uint16 `json:"reserved2" yaml:"reserved2"`
	OffBits       uint32 `json:"off_bits" yaml:"off_bits"`
	HeaderSize    uint32 `json:"header_size" yaml:"header_size"`
	Width         uint32 `json:"width" yaml:"width"`
	Height        uint32 `json:"height" yaml:"height"`
	Planes        uint16 `json:"planes" yaml:"planes"`
	BitCount      uint16 `json:"bit_count" yaml:"bit_count"`
	Compression   uint32 `json:"compression" yaml:"compression"`
	SizeImage     uint32 `json:"size_image" yaml:"size_image"`
	XPelsPerMeter uint32 `json:"x_pels_per_meter" yaml:"x_pels_per_meter"`
	YPelsPerMeter uint32 `json:"y_pels_per_meter" yaml:"y_pels_per_meter"`
	ClrUsed       uint32 `json:"clr_used" yaml:"clr_used"`
	ClrImportant  uint32 `json:"clr_important" yaml:"clr_important"`
	PixelCount    uint64 `json:"pixel_count" yaml:"pixel_count"`
	Stride        int    `json:"stride" yaml:"stride"`
	Padding       int    `json:"padding" yaml:"padding"`
	PaletteGap    int64  `json:"palette_gap" yaml:"palette_gap"`
}

// Summary collects the header fields of b plus a few derived values.
func Summary(b *bmp.Bitmap) Report {
	fh, ih := b.FileHeader, b.InfoHeader
	stride := b.Stride()
	return Report{
		Filename:      b.Filename,
		Type:          fmt.Sprintf("0x%04X", fh.Type),
		FileSize:      fh.Size,
		Reserved1:     fh.Reserved1,
		Reserved2:     fh.Reserved2,
		OffBits:       fh.OffBits,
		HeaderSize:    ih.Size,
		Width:         ih.Width,
		Height:        ih.Height,
		Planes:        ih.Planes,
		BitCount:      ih.BitCount,
		Compression:   ih.Compression,
		SizeImage:     ih.SizeImage,
		XPelsPerMeter: ih.XPelsPerMeter,
		YPelsPerMeter: ih.YPelsPerMeter,
		ClrUsed:       ih.ClrUsed,
		ClrImportant:  ih.ClrImportant,
		PixelCount:    uint64(ih.Width) * uint64(ih.Height),
		Stride:        stride,
		Padding:       stride - int(ih.Width)*int(ih.BitCount)/8,
		PaletteGap:    int64(fh.OffBits) - bmp.HeaderLen,
	}
}

// pairs returns the report as ordered key/value rows for the text table.
func (r Report) pairs() [][2]string {
	u := func(v uint64) string { return strconv.FormatUint(v, 10) }
	rows := [][2]string{
		{"Type", r.Type},
		{"File size", u(uint64(r.FileSize)) + " bytes"},
		{"Reserved", fmt.Sprintf("0x%X 0x%X", r.Reserved1, r.Reserved2)},
		{"Pixel offset", u(uint64(r.OffBits)) + " bytes"},
		{"Header size", u(uint64(r.HeaderSize)) + " bytes"},
		{"Width", u(uint64(r.Width)) + " px"},
		{"Height", u(uint64(r.Height)) + " px"},
		{"Planes", u(uint64(r.Planes))},
		{"Bit count", u(uint64(r.BitCount)) + " bits"},
		{"Compression", u(uint64(r.Compression))},
		{"Size image", u(uint64(r.SizeImage)) + " bytes"},
		{"Resolution", fmt.Sprintf("%d x %d px/m", r.XPelsPerMeter, r.YPelsPerMeter)},
		{"Colors used", u(uint64(r.ClrUsed))},
		{"Colors important", u(uint64(r.ClrImportant))},
		{"Pixel count", u(r.PixelCount)},
		{"Stride", strconv.Itoa(r.Stride) + " bytes"},
		{"Padding", strconv.Itoa(r.Padding) + " bytes"},
		{"Palette gap", strconv.FormatInt(r.PaletteGap, 10) + " bytes"},
	}
	if r.Filename != "" {
		rows = append([][2]string{{"Filename", r.Filename}}, rows...)
	}
	return rows
}

// WriteReport renders r in the given format.
func WriteReport(w io.Writer, r Report, format Format) error {
	switch format {
	case FormatText, "":
		return writeTable(w, r.pairs())
	case FormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(r)
	case FormatYAML:
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		defer func() { _ = encoder.Close() }()
		return encoder.Encode(r)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

func writeTable(w io.Writer, pairs [][2]string) error {
	table := tablewriter.NewWriter(w)

	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator(":")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("  ")
	table.SetNoWhiteSpace(true)

	for _, pair := range pairs {
		table.Append([]string{pair[0], pair[1]})
	}

	table.Render()
	return nil
}
