// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package slug_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/mahamanga/pkg/slug"
)

func TestFrom(t *testing.T) {
	tests := map[string]string{
		"Solo Leveling":         "solo-leveling",
		"  Kimetsu no Yaiba!  ": "kimetsu-no-yaiba",
		"Pokémon Adventures":    "pokemon-adventures",
		"Tiệm Bánh Mì":          "tiem-banh-mi",
		"one--piece__1000":      "one-piece-1000",
		"already-a-slug":        "already-a-slug",
		"!!!":                   "",
		"":                      "",
	}

	for input, want := range tests {
		t.Run(input, func(t *testing.T) {
			assert.Equal(t, want, slug.From(input))
		})
	}
}
