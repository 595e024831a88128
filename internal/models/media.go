// internal/models/media.go
package models

import (
	"encoding/hex"

	"golang.org/x/crypto/blake2b"
)

// FileUpload is a locally chosen binary that has not been sent to the backend yet.
// It is immutable once built; copies of an Item share the same *FileUpload.
type FileUpload struct {
	Name        string `json:"name"`
	Size        int64  `json:"size"`
	ContentType string `json:"content_type,omitempty"`
	Width       int    `json:"width,omitempty"`
	Height      int    `json:"height,omitempty"`
	Digest      string `json:"digest,omitempty"`
	Data        []byte `json:"-"`
}

// NewFileUpload builds a FileUpload and stamps it with a BLAKE2b-256 content digest.
func NewFileUpload(name, contentType string, data []byte) FileUpload {
	sum := blake2b.Sum256(data)
	return FileUpload{
		Name:        name,
		Size:        int64(len(data)),
		ContentType: contentType,
		Digest:      hex.EncodeToString(sum[:]),
		Data:        data,
	}
}

// SameFile reports whether two uploads are the same selection. Name and size must match;
// when both sides carry a digest the content must match too.
func SameFile(a, b *FileUpload) bool {
	if a == nil || b == nil {
		return false
	}
	if a.Name != b.Name || a.Size != b.Size {
		return false
	}
	if a.Digest != "" && b.Digest != "" {
		return a.Digest == b.Digest
	}
	return true
}

type SlotKind string

const (
	SlotPending   SlotKind = "pending"
	SlotPersisted SlotKind = "persisted"
)

// ImageSlot is one position in an ordered image list. Position 0 is the cover image.
type ImageSlot struct {
	Kind     SlotKind    `json:"kind"`
	File     *FileUpload `json:"file,omitempty"`
	URL      string      `json:"url,omitempty"`
	RemoteID string      `json:"id,omitempty"`
}

func PendingImage(file FileUpload) ImageSlot {
	f := file
	return ImageSlot{Kind: SlotPending, File: &f}
}

func PersistedImage(url, remoteID string) ImageSlot {
	return ImageSlot{Kind: SlotPersisted, URL: url, RemoteID: remoteID}
}

func (s ImageSlot) IsPending() bool {
	return s.Kind == SlotPending && s.File != nil
}

// appendUniqueImages appends files to slots, skipping any whose identity matches an
// existing pending slot or an earlier file in the same batch.
func appendUniqueImages(slots []ImageSlot, files []FileUpload) ([]ImageSlot, int) {
	added := 0
	for i := range files {
		candidate := &files[i]
		duplicate := false
		for _, slot := range slots {
			if slot.IsPending() && SameFile(slot.File, candidate) {
				duplicate = true
				break
			}
		}
		if duplicate {
			continue
		}
		slots = append(slots, PendingImage(*candidate))
		added++
	}
	return slots, added
}

func removeSlot(slots []ImageSlot, index int) []ImageSlot {
	if index < 0 || index >= len(slots) {
		return slots
	}
	return append(slots[:index], slots[index+1:]...)
}

func moveSlot(slots []ImageSlot, from, to int) []ImageSlot {
	if from < 0 || from >= len(slots) || from == to {
		return slots
	}
	if to < 0 {
		to = 0
	}
	if to >= len(slots) {
		to = len(slots) - 1
	}
	slot := slots[from]
	slots = append(slots[:from], slots[from+1:]...)
	slots = append(slots[:to], append([]ImageSlot{slot}, slots[to:]...)...)
	return slots
}

func cloneSlots(slots []ImageSlot) []ImageSlot {
	if slots == nil {
		return nil
	}
	out := make([]ImageSlot, len(slots))
	copy(out, slots)
	return out
}
