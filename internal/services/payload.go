// internal/services/payload.go
package services

import (
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"strings"

	"github.com/javajoker/catalog-admin/internal/models"
)

type EncodeMode string

const (
	EncodeModeCreate EncodeMode = "create"
	EncodeModeEdit   EncodeMode = "edit"
)

// PayloadField is one entry of the multipart field bag: text when File is nil.
type PayloadField struct {
	Name  string
	Value string
	File  *models.FileUpload
}

func (f PayloadField) IsFile() bool {
	return f.File != nil
}

const (
	DropReasonBlankName     = "blank_color_name"
	DropReasonDuplicateName = "duplicate_color_name"
	DropReasonInvalidName   = "invalid_color_name"
)

// DroppedVariant records a variant the encoder filtered out.
type DroppedVariant struct {
	Index     int    `json:"index"`
	ColorName string `json:"colorName"`
	Reason    string `json:"reason"`
}

// Payload is the immutable transport encoding of one item. Fields keep emission order;
// several files may share a name.
type Payload struct {
	Mode    EncodeMode
	ItemID  string
	Fields  []PayloadField
	Dropped []DroppedVariant
}

func (p *Payload) addText(name, value string) {
	p.Fields = append(p.Fields, PayloadField{Name: name, Value: value})
}

func (p *Payload) addJSON(name string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", name, err)
	}
	p.addText(name, string(data))
	return nil
}

func (p *Payload) addFile(name string, file *models.FileUpload) {
	p.Fields = append(p.Fields, PayloadField{Name: name, File: file})
}

// Text returns the first text value stored under name.
func (p *Payload) Text(name string) (string, bool) {
	for _, f := range p.Fields {
		if f.Name == name && !f.IsFile() {
			return f.Value, true
		}
	}
	return "", false
}

// Files returns every binary stored under name, in attachment order.
func (p *Payload) Files(name string) []*models.FileUpload {
	var files []*models.FileUpload
	for _, f := range p.Fields {
		if f.Name == name && f.IsFile() {
			files = append(files, f.File)
		}
	}
	return files
}

func (p *Payload) TextFields() []PayloadField {
	var out []PayloadField
	for _, f := range p.Fields {
		if !f.IsFile() {
			out = append(out, f)
		}
	}
	return out
}

func (p *Payload) FileFields() []PayloadField {
	var out []PayloadField
	for _, f := range p.Fields {
		if f.IsFile() {
			out = append(out, f)
		}
	}
	return out
}

// headerEscaper quotes a Content-Disposition parameter. CR and LF are percent-encoded
// so a name can never end the header line.
var headerEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"", "\r", "%0D", "\n", "%0A")

// WriteMultipart streams the payload as multipart/form-data: text fields first, then
// binaries, each group in emission order. The caller closes w.
func (p *Payload) WriteMultipart(w *multipart.Writer) error {
	for _, f := range p.TextFields() {
		if err := w.WriteField(f.Name, f.Value); err != nil {
			return fmt.Errorf("failed to write field %s: %w", f.Name, err)
		}
	}
	for _, f := range p.FileFields() {
		contentType := f.File.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
			headerEscaper.Replace(f.Name), headerEscaper.Replace(f.File.Name)))
		h.Set("Content-Type", contentType)
		part, err := w.CreatePart(h)
		if err != nil {
			return fmt.Errorf("failed to create part %s: %w", f.Name, err)
		}
		if _, err := part.Write(f.File.Data); err != nil {
			return fmt.Errorf("failed to write file %s: %w", f.File.Name, err)
		}
	}
	return nil
}

type PreviewFile struct {
	Name        string `json:"name"`
	Size        int64  `json:"size"`
	ContentType string `json:"content_type,omitempty"`
}

type PreviewField struct {
	Name  string       `json:"name"`
	Value string       `json:"value,omitempty"`
	File  *PreviewFile `json:"file,omitempty"`
}

type PayloadPreview struct {
	Mode    EncodeMode       `json:"mode"`
	ItemID  string           `json:"item_id,omitempty"`
	Fields  []PreviewField   `json:"fields"`
	Dropped []DroppedVariant `json:"dropped_variants"`
}

// Preview describes the payload without binary contents.
func (p *Payload) Preview() PayloadPreview {
	preview := PayloadPreview{
		Mode:    p.Mode,
		ItemID:  p.ItemID,
		Fields:  make([]PreviewField, 0, len(p.Fields)),
		Dropped: append([]DroppedVariant{}, p.Dropped...),
	}
	for _, f := range p.Fields {
		field := PreviewField{Name: f.Name, Value: f.Value}
		if f.IsFile() {
			field.File = &PreviewFile{Name: f.File.Name, Size: f.File.Size, ContentType: f.File.ContentType}
		}
		preview.Fields = append(preview.Fields, field)
	}
	return preview
}
