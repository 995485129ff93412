package fetcher

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type municipio struct {
	ID   int    `json:"id"`
	Nome string `json:"nome"`
}

func TestDecodeJSONArray(t *testing.T) {
	input := `[{"id":3154606,"nome":"Ritápolis"},{"id":3550308,"nome":"São Paulo"}]`

	outCh, errCh := DecodeJSONArray[municipio](context.Background(), strings.NewReader(input))

	var items []municipio
	for item := range outCh {
		items = append(items, item)
	}
	require.NoError(t, <-errCh)
	require.Len(t, items, 2)
	assert.Equal(t, "Ritápolis", items[0].Nome)
	assert.Equal(t, 3550308, items[1].ID)
}

func TestDecodeJSONArray_NotAnArray(t *testing.T) {
	outCh, errCh := DecodeJSONArray[municipio](context.Background(), strings.NewReader(`{"id":1}`))
	for range outCh {
	}
	assert.Error(t, <-errCh)
}

func TestDecodeJSONArray_MalformedElement(t *testing.T) {
	outCh, errCh := DecodeJSONArray[municipio](context.Background(), strings.NewReader(`[{"id":"not-a-number"}]`))
	for range outCh {
	}
	assert.Error(t, <-errCh)
}

func TestDecodeJSONObject(t *testing.T) {
	obj, err := DecodeJSONObject[municipio](strings.NewReader(`{"id":3106200,"nome":"Belo Horizonte"}`))
	require.NoError(t, err)
	assert.Equal(t, "Belo Horizonte", obj.Nome)
}
