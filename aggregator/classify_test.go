package aggregator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		label    string
		expected Outcome
	}{
		{"Correto", Correct},
		{"Correct", Correct},
		{"Correcto", Correct},
		{"correto", Correct},
		{" CORRETO ", Correct},
		{"c", Correct},
		{"Incorreto", Incorrect},
		{"Incorrecto", Incorrect},
		{"Errado", Incorrect},
		{"wrong", Incorrect},
		{"", Incorrect},
		{"   ", Incorrect},
		{"42", Incorrect},
	}

	for _, c := range cases {
		assert.Equal(t, c.expected, Classify(c.label, "c"), "label %q", c.label)
	}
}

func TestClassifyConfigurablePrefix(t *testing.T) {
	// A deployment labelling answers in another language changes the
	// prefix, not the code.
	assert.Equal(t, Correct, Classify("Juist", "j"))
	assert.Equal(t, Incorrect, Classify("Correto", "j"))
}
