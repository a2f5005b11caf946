// Package extract implements the intent splitter / slot extractor
// collaborator: a Gemini-backed model call whose delimited tuple output is
// parsed into ordered (intent, slot map) pairs, plus a scripted mock for
// offline runs and tests.
package extract

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/llamale/server/internal/assistant/model"
	logx "github.com/llamale/server/pkg/logger"
)

const (
	recDelim = "##"
	tupDelim = "<||>"
	endDelim = "<|COMPLETE|>"

	// ReferenceMarker is emitted by the model in place of a literal slot
	// value when the user referred to a previously mentioned beer ("it",
	// "that one"). The dialogue manager substitutes the antecedent.
	ReferenceMarker = "<ref>"
)

// basic safety limits to avoid pathological inputs
const (
	maxContentLen = 128 * 1024 // 128KB
	maxRecords    = 200        // maximum number of records to process
	maxTupleLen   = 8 * 1024   // 8KB per tuple
	maxErrSnippet = 200        // limit error snippet size
)

// Report accumulates non-fatal parsing problems. Malformed records are
// skipped, never fatal: a partially parseable model reply still produces
// usable intents.
type Report struct {
	Errors    []string
	Truncated bool
}

func (r *Report) addErr(msg string) {
	r.Errors = append(r.Errors, msg)
}

type rawTuple struct {
	Type  string
	Parts []string
}

func parseRawTuple(s string) (*rawTuple, error) {
	if s == "" {
		return nil, fmt.Errorf("empty tuple")
	}
	// enforce a sane upper bound per record
	if len(s) > maxTupleLen {
		return nil, fmt.Errorf("tuple too large")
	}

	s = strings.TrimSpace(s)
	if len(s) < 2 || s[0] != '(' || s[len(s)-1] != ')' {
		return nil, fmt.Errorf("invalid tuple parens")
	}
	// remove the outermost parens only
	inner := s[1 : len(s)-1]
	parts := strings.Split(inner, tupDelim)
	if len(parts) < 2 {
		return nil, fmt.Errorf("invalid tuple parts")
	}
	return &rawTuple{Type: strings.TrimSpace(parts[0]), Parts: parts}, nil
}

func parseConfidence(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("confidence parse: %w", err)
	}
	if v < 0 || v > 1 {
		return 0, fmt.Errorf("confidence out of range")
	}
	return v, nil
}

func safeSnippet(s string) string {
	s = strings.TrimSpace(s)
	if len(s) <= maxErrSnippet {
		return s
	}
	return s[:maxErrSnippet]
}

// Parse decodes the model's delimited tuple output into ordered intents.
//
// Wire format, one record per "##"-separated segment, terminated by
// <|COMPLETE|>:
//
//	(intent<||>get_beer_recommendation<||>0.92)
//	(slot<||>get_beer_recommendation<||>style<||>Belgian Tripel<||>0.9)
//	(slot<||>rate_beer<||>name<||><ref><||>0.8)
//
// Intent record order defines resolution order. Slot records attach to the
// intent record of the same type; orphan slots are reported and dropped.
func Parse(content string) ([]model.ExtractedIntent, *Report) {
	report := &Report{}

	if len(content) > maxContentLen {
		logx.Warn().
			Str("component", "extract_parser").
			Int("max_len", maxContentLen).
			Int("orig_len", len(content)).
			Msg("content truncated due to size limit")
		content = content[:maxContentLen]
		report.Truncated = true
	}
	// honor completion delimiter if present
	if idx := strings.Index(content, endDelim); idx >= 0 {
		content = content[:idx]
	}

	var (
		intents []model.ExtractedIntent
		byType  = make(map[model.IntentType]int)
	)

	records := strings.Split(content, recDelim)
	processed := 0
	for _, rec := range records {
		if processed >= maxRecords {
			report.addErr("records capped")
			logx.Warn().
				Str("component", "extract_parser").
				Int("max_records", maxRecords).
				Msg("record processing capped")
			break
		}
		rec = strings.TrimSpace(rec)
		if rec == "" || rec == endDelim {
			continue
		}
		processed++

		rt, err := parseRawTuple(rec)
		if err != nil {
			report.addErr(fmt.Sprintf("bad_record: %s", safeSnippet(rec)))
			continue
		}

		switch rt.Type {
		case "intent":
			if len(rt.Parts) < 3 {
				report.addErr("intent: insufficient parts")
				continue
			}
			name := strings.TrimSpace(rt.Parts[1])
			if name == "" || !utf8.ValidString(name) {
				report.addErr("intent: invalid name")
				continue
			}
			conf, err := parseConfidence(rt.Parts[2])
			if err != nil {
				report.addErr("intent: invalid confidence")
				continue
			}
			intent := model.IntentType(name)
			if _, seen := byType[intent]; seen {
				// one goal per intent type; duplicates fold into the first
				continue
			}
			byType[intent] = len(intents)
			intents = append(intents, model.ExtractedIntent{
				Intent:     intent,
				Slots:      make(map[string]model.SlotValue),
				Confidence: conf,
			})

		case "slot":
			if len(rt.Parts) < 5 {
				report.addErr("slot: insufficient parts")
				continue
			}
			intent := model.IntentType(strings.TrimSpace(rt.Parts[1]))
			slotName := strings.TrimSpace(rt.Parts[2])
			// free-text values may contain the delimiter; everything between
			// the slot name and the trailing confidence is the value
			value := strings.TrimSpace(strings.Join(rt.Parts[3:len(rt.Parts)-1], tupDelim))
			if slotName == "" || !utf8.ValidString(slotName) || !utf8.ValidString(value) {
				report.addErr("slot: invalid name or value")
				continue
			}
			conf, err := parseConfidence(rt.Parts[len(rt.Parts)-1])
			if err != nil {
				report.addErr("slot: invalid confidence")
				continue
			}
			idx, ok := byType[intent]
			if !ok {
				report.addErr(fmt.Sprintf("slot: no intent record for %q", intent))
				continue
			}
			sv := model.SlotValue{Value: value, Confidence: conf}
			if value == ReferenceMarker {
				sv = model.SlotValue{Reference: true, Confidence: conf}
			}
			intents[idx].Slots[slotName] = sv

		default:
			report.addErr("unknown tuple type")
		}
	}

	return intents, report
}
