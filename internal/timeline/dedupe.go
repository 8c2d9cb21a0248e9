package timeline

import "leadconsole/internal/api"

// Dedupe collapses raw records that describe the same logical status
// transition. Two independent rules apply, both operating on the raw
// discriminators (which do not survive normalization):
//
//  1. Envelope filter: a record that is simultaneously the generic
//     "event" envelope kind and the STATUS_CHANGED type is the same
//     transition surfacing from a second log producer. It is dropped
//     outright when a richer "status"-kind record with actor attribution
//     exists anywhere in the list.
//  2. Timestamp grouping: status-change records sharing an exact
//     timestamp string collapse to one survivor, chosen by richness.
//
// Non-status-change records are never deduplicated against anything.
// The pass is linear and idempotent, and survivors keep the position of
// the first record seen at their timestamp.
func Dedupe(records []api.ActivityRecord) []api.ActivityRecord {
	richStatusExists := false
	for _, rec := range records {
		if rec.Kind == "status" && rec.Actor() != nil {
			richStatusExists = true
			break
		}
	}

	type slot struct {
		index int // position in out
		rec   api.ActivityRecord
	}

	out := make([]api.ActivityRecord, 0, len(records))
	kept := make(map[string]*slot, len(records))

	for _, rec := range records {
		if richStatusExists && isEnvelopeStatusDup(rec) {
			continue
		}
		if Classify(rec) != CategoryStatusChanged {
			out = append(out, rec)
			continue
		}

		existing, ok := kept[rec.TS]
		if !ok {
			out = append(out, rec)
			kept[rec.TS] = &slot{index: len(out) - 1, rec: rec}
			continue
		}
		if richer(rec, existing.rec) {
			existing.rec = rec
			out[existing.index] = rec
		}
	}

	return out
}

// isEnvelopeStatusDup reports whether the record is the generic event
// envelope spelling of a status transition.
func isEnvelopeStatusDup(rec api.ActivityRecord) bool {
	return rec.Kind == "event" && rec.Type == "STATUS_CHANGED"
}

// richer reports whether candidate should replace the currently kept
// record for the same timestamp. A canonical "status"-kind record with
// actor attribution beats everything; actor attribution alone beats the
// canonical kind alone. When richness ties, the record with the higher
// server-assigned id wins (the later log row); records without ids keep
// the first-seen survivor.
func richer(candidate, current api.ActivityRecord) bool {
	cs, ks := richness(candidate), richness(current)
	if cs != ks {
		return cs > ks
	}
	if candidate.ID != nil && current.ID != nil {
		return *candidate.ID > *current.ID
	}
	return false
}

func richness(rec api.ActivityRecord) int {
	score := 0
	if rec.Actor() != nil {
		score += 2
	}
	if rec.Kind == "status" {
		score++
	}
	return score
}
