package journey

import (
	"encoding/json"
	"fmt"
	"time"
)

// record is the stored shape of a journey. The payload is kept raw until the
// kind is known. Version lives in the session record, not in the document.
type record struct {
	ID                string          `json:"id"`
	Kind              Kind            `json:"kind"`
	Mode              Mode            `json:"mode"`
	LastTouched       time.Time       `json:"lastTouched"`
	IsCheckingAnswers bool            `json:"isCheckingAnswers,omitempty"`
	ReturnPoint       string          `json:"returnPoint,omitempty"`
	Payload           json.RawMessage `json:"payload"`
	Conflict          *Conflict       `json:"conflict,omitempty"`
}

func encode(j *Journey) ([]byte, error) {
	if j.Payload == nil {
		return nil, fmt.Errorf("journey %s has no payload", j.ID)
	}
	if j.Payload.Kind() != j.Kind {
		return nil, fmt.Errorf("journey %s is %s but holds %s payload: %w", j.ID, j.Kind, j.Payload.Kind(), ErrWrongKind)
	}
	payload, err := json.Marshal(j.Payload)
	if err != nil {
		return nil, fmt.Errorf("encoding %s payload: %w", j.Kind, err)
	}
	return json.Marshal(record{
		ID:                j.ID,
		Kind:              j.Kind,
		Mode:              j.Mode,
		LastTouched:       j.LastTouched,
		IsCheckingAnswers: j.IsCheckingAnswers,
		ReturnPoint:       j.ReturnPoint,
		Payload:           payload,
		Conflict:          j.Conflict,
	})
}

func decode(data []byte, version int64) (*Journey, error) {
	var r record
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("decoding journey: %w", err)
	}
	payload, err := newPayload(r.Kind)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(r.Payload, payload); err != nil {
		return nil, fmt.Errorf("decoding %s payload: %w", r.Kind, err)
	}
	return &Journey{
		ID:                r.ID,
		Kind:              r.Kind,
		Mode:              r.Mode,
		LastTouched:       r.LastTouched,
		IsCheckingAnswers: r.IsCheckingAnswers,
		ReturnPoint:       r.ReturnPoint,
		Payload:           payload,
		Conflict:          r.Conflict,
		Version:           version,
	}, nil
}
