// Bani AI - Scripture Content and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/baniai

package content

import (
	"fmt"
	"strings"

	"github.com/tomtom215/baniai/internal/banidb"
	"github.com/tomtom215/baniai/internal/models"
	"github.com/tomtom215/baniai/internal/validation"
)

// ShabadFromUpstream flattens a BaniDB shabad into the stored form: verse
// Gurmukhi joined by spaces, English translations joined the same way.
func ShabadFromUpstream(s *banidb.Shabad) (*models.Shabad, error) {
	if s == nil {
		return nil, fmt.Errorf("%w: empty shabad payload", ErrUpstream)
	}

	text := make([]string, 0, len(s.Verses))
	translation := make([]string, 0, len(s.Verses))
	for i := range s.Verses {
		v := &s.Verses[i]
		if g := verseGurmukhi(v); g != "" {
			text = append(text, g)
		}
		if en := v.English(); en != "" {
			translation = append(translation, en)
		}
	}

	out := &models.Shabad{
		ShabadID:    s.ShabadInfo.ShabadID,
		Text:        strings.Join(text, " "),
		Translation: strings.Join(translation, " "),
		Raag:        s.ShabadInfo.Raag.English,
		Writer:      s.ShabadInfo.Writer.English,
	}
	if verr := validation.ValidateStruct(out); verr != nil {
		return nil, fmt.Errorf("%w: shabad payload: %w", ErrUpstream, verr)
	}
	return out, nil
}

// AngFromUpstream converts a BaniDB ang. The requested ang and source are
// used when the payload omits them.
func AngFromUpstream(a *banidb.Ang, ang int, source string) (*models.Ang, error) {
	if a == nil {
		return nil, fmt.Errorf("%w: empty ang payload", ErrUpstream)
	}

	lines := a.AllVerses()
	verses := make([]models.AngVerse, 0, len(lines))
	for i := range lines {
		v := &lines[i]
		verses = append(verses, models.AngVerse{
			LineID:      v.VerseID,
			Gurmukhi:    verseGurmukhi(v),
			Translation: v.English(),
			PageNo:      v.PageNo,
		})
	}

	out := &models.Ang{
		Ang:    a.PageNumber(),
		Source: a.Source.SourceID,
		Verses: verses,
	}
	if out.Ang == 0 {
		out.Ang = ang
	}
	if out.Source == "" {
		out.Source = source
	}
	if verr := validation.ValidateStruct(out); verr != nil {
		return nil, fmt.Errorf("%w: ang payload: %w", ErrUpstream, verr)
	}
	return out, nil
}

func verseGurmukhi(v *banidb.Verse) string {
	if v.Verse.Unicode != "" {
		return v.Verse.Unicode
	}
	return v.Verse.Gurmukhi
}
