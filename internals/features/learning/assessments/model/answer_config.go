// file: internals/features/learning/assessments/model/answer_config.go
package model

import (
	"encoding/json"
	"fmt"
	"strings"

	"gorm.io/datatypes"

	"bilearning_backend/internals/features/learning/faults"
)

/* =========================================================
   ANSWER CONFIG (tagged union)
   Tag union = tipe soal pemiliknya:
   - multiple_choice : {options: 2–4 string non-kosong, correct_index}
   - fill_blank      : {accepted_answers: list non-kosong}
   - essay           : {} (tidak ada kunci tersimpan)
   Dipakai dua kali: saat authoring soal (validasi) dan saat
   auto-grading (baca kunci).
========================================================= */

type MultipleChoiceConfig struct {
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correct_index"`
}

type FillBlankConfig struct {
	AcceptedAnswers []string `json:"accepted_answers"`
}

type AnswerConfig struct {
	Type           AssessmentQuestionType
	MultipleChoice *MultipleChoiceConfig // terisi kalau Type == multiple_choice
	FillBlank      *FillBlankConfig      // terisi kalau Type == fill_blank
	// essay: kedua pointer nil
}

// NormalizeAnswer: trim + lowercase, dipakai fill_blank (kunci & jawaban murid).
func NormalizeAnswer(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// ParseAnswerConfig memvalidasi raw JSONB sesuai tipe soal.
// Semua kegagalan dibungkus faults.ErrValidation.
func ParseAnswerConfig(qtype AssessmentQuestionType, raw []byte) (*AnswerConfig, error) {
	switch qtype {
	case QuestionTypeMultipleChoice:
		var cfg MultipleChoiceConfig
		if err := unmarshalStrict(raw, &cfg); err != nil {
			return nil, fmt.Errorf("%w: answer_config multiple_choice tidak valid: %v", faults.ErrValidation, err)
		}
		if err := cfg.validate(); err != nil {
			return nil, err
		}
		return &AnswerConfig{Type: qtype, MultipleChoice: &cfg}, nil

	case QuestionTypeFillBlank:
		var cfg FillBlankConfig
		if err := unmarshalStrict(raw, &cfg); err != nil {
			return nil, fmt.Errorf("%w: answer_config fill_blank tidak valid: %v", faults.ErrValidation, err)
		}
		if err := cfg.validate(); err != nil {
			return nil, err
		}
		return &AnswerConfig{Type: qtype, FillBlank: &cfg}, nil

	case QuestionTypeEssay:
		// essay tidak menyimpan kunci; terima kosong / null / {}
		s := strings.TrimSpace(string(raw))
		if s != "" && s != "null" && s != "{}" {
			return nil, fmt.Errorf("%w: essay tidak boleh punya answer_config", faults.ErrValidation)
		}
		return &AnswerConfig{Type: qtype}, nil

	default:
		return nil, fmt.Errorf("%w: tipe soal tidak dikenal: %s", faults.ErrValidation, qtype)
	}
}

func (c *MultipleChoiceConfig) validate() error {
	if len(c.Options) < 2 || len(c.Options) > 4 {
		return fmt.Errorf("%w: multiple_choice butuh 2–4 opsi", faults.ErrValidation)
	}
	seen := make(map[string]struct{}, len(c.Options))
	for _, opt := range c.Options {
		t := strings.TrimSpace(opt)
		if t == "" {
			return fmt.Errorf("%w: opsi tidak boleh kosong", faults.ErrValidation)
		}
		seen[t] = struct{}{}
	}
	if len(seen) < 2 {
		return fmt.Errorf("%w: minimal 2 opsi yang berbeda", faults.ErrValidation)
	}
	if c.CorrectIndex < 0 || c.CorrectIndex >= len(c.Options) {
		return fmt.Errorf("%w: correct_index di luar range opsi", faults.ErrValidation)
	}
	return nil
}

func (c *FillBlankConfig) validate() error {
	// dedup case-insensitive + trim; kosong setelah dedup = invalid
	deduped := make([]string, 0, len(c.AcceptedAnswers))
	seen := make(map[string]struct{}, len(c.AcceptedAnswers))
	for _, a := range c.AcceptedAnswers {
		n := NormalizeAnswer(a)
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		deduped = append(deduped, strings.TrimSpace(a))
	}
	if len(deduped) == 0 {
		return fmt.Errorf("%w: fill_blank butuh minimal 1 accepted answer", faults.ErrValidation)
	}
	c.AcceptedAnswers = deduped
	return nil
}

// Accepts: cek jawaban murid terhadap kunci (case/whitespace-insensitive).
func (c *FillBlankConfig) Accepts(answer string) bool {
	n := NormalizeAnswer(answer)
	if n == "" {
		return false
	}
	for _, a := range c.AcceptedAnswers {
		if NormalizeAnswer(a) == n {
			return true
		}
	}
	return false
}

// ToJSON menserialisasi union kembali ke kolom JSONB.
func (c *AnswerConfig) ToJSON() (datatypes.JSON, error) {
	switch c.Type {
	case QuestionTypeMultipleChoice:
		b, err := json.Marshal(c.MultipleChoice)
		return datatypes.JSON(b), err
	case QuestionTypeFillBlank:
		b, err := json.Marshal(c.FillBlank)
		return datatypes.JSON(b), err
	default:
		return datatypes.JSON([]byte("{}")), nil
	}
}

func unmarshalStrict(raw []byte, out interface{}) error {
	if len(raw) == 0 {
		return fmt.Errorf("config kosong")
	}
	dec := json.NewDecoder(strings.NewReader(string(raw)))
	dec.DisallowUnknownFields()
	return dec.Decode(out)
}
