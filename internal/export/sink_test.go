package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nova-labs/influencer-cli/internal/model"
)

func TestRowMatchesHeader(t *testing.T) {
	r := model.ContactRecord{
		Platform:  "beauty",
		Domain:    "glossier.com",
		Email:     "jane@glossier.com",
		FullName:  "Jane Doe",
		FirstName: "Jane",
		LastName:  "Doe",
		JobTitle:  "Content Creator",
		Source:    "hunter.io - glossier.com",
	}
	r.SetHandle("linkedin", "janedoe")
	r.SetHandle("twitter", "janed")

	row := Row(r)
	require.Len(t, row, len(Header()))

	assert.Equal(t, "jane@glossier.com", row[2])
	assert.Equal(t, "janedoe", row[7])
	assert.Equal(t, "https://linkedin.com/in/janedoe", row[8])
	assert.Equal(t, "janed", row[9])
	assert.Equal(t, "https://twitter.com/janed", row[10])
}

func TestKeyFromRow(t *testing.T) {
	header := Header()

	t.Run("email wins", func(t *testing.T) {
		r := model.ContactRecord{Email: "Jane@Glossier.com"}
		r.SetHandle("twitter", "janed")
		key := KeyFromRow(header, Row(r))
		assert.Equal(t, "jane@glossier.com", key)
	})

	t.Run("handle fallback", func(t *testing.T) {
		r := model.ContactRecord{}
		r.SetHandle("twitter", "janed")
		key := KeyFromRow(header, Row(r))
		assert.Equal(t, "twitter:janed", key)
	})

	t.Run("short row padded", func(t *testing.T) {
		key := KeyFromRow(header, []string{"beauty", "glossier.com", "jane@glossier.com"})
		assert.Equal(t, "jane@glossier.com", key)
	})

	t.Run("header case insensitive", func(t *testing.T) {
		key := KeyFromRow([]string{"Email"}, []string{"Jane@Glossier.com"})
		assert.Equal(t, "jane@glossier.com", key)
	})

	t.Run("empty row", func(t *testing.T) {
		assert.Empty(t, KeyFromRow(header, make([]string, len(header))))
	})
}

func TestFilterNew(t *testing.T) {
	jane := model.ContactRecord{Email: "jane@glossier.com"}
	janeUpper := model.ContactRecord{Email: "JANE@glossier.com"}
	john := model.ContactRecord{Email: "john@glossier.com"}
	anon := model.ContactRecord{FullName: "No Key"}

	seen := keySet([]string{"jane@glossier.com"})
	fresh := filterNew([]model.ContactRecord{jane, janeUpper, john, john, anon}, seen)

	require.Len(t, fresh, 1)
	assert.Equal(t, "john@glossier.com", fresh[0].Email)
}
