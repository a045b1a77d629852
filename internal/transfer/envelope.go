// Package transfer hands finished signatures to a collector on the local
// network: JSON envelopes over a websocket, collectors found through mDNS.
package transfer

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"signpad/internal/signature"
)

const (
	ServiceType = "_signpad._tcp"
	Path        = "/signatures"

	StatusOK       = "ok"
	StatusRejected = "rejected"
	StatusFailed   = "failed"

	// MaxFileSize bounds a single envelope's payload.
	MaxFileSize = 8 << 20
)

var ErrRejected = errors.New("transfer: collector rejected signature")

// Envelope carries one signature file.
type Envelope struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	MIMEType string    `json:"mime_type"`
	Data     []byte    `json:"data"`
	SentAt   time.Time `json:"sent_at"`
}

// Ack is the collector's reply to an Envelope.
type Ack struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
}

func NewEnvelope(f signature.File) Envelope {
	return Envelope{
		ID:       uuid.NewString(),
		Name:     f.Name,
		MIMEType: f.MIMEType,
		Data:     f.Data,
		SentAt:   time.Now().UTC(),
	}
}

// File converts the envelope back after validating it.
func (e Envelope) File() (signature.File, error) {
	if !signature.ValidName(e.Name) {
		return signature.File{}, fmt.Errorf("bad file name %q", e.Name)
	}
	if e.MIMEType != signature.PNGMIMEType {
		return signature.File{}, fmt.Errorf("unsupported mime type %q", e.MIMEType)
	}
	if len(e.Data) == 0 {
		return signature.File{}, errors.New("empty payload")
	}
	if len(e.Data) > MaxFileSize {
		return signature.File{}, fmt.Errorf("payload too large: %d bytes", len(e.Data))
	}
	return signature.File{Name: e.Name, MIMEType: e.MIMEType, Data: e.Data}, nil
}
