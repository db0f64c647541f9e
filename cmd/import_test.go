package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordFromRow(t *testing.T) {
	header := []string{"platform", "domain", "email", "full_name", "first_name", "last_name",
		"job_title", "linkedin_handle", "linkedin_url", "twitter_handle", "twitter_url", "source"}
	row := []string{"Tech Media", "techcrunch.com", "Maya@TechCrunch.com", "Maya Chen", "Maya", "Chen",
		"Senior Editor", "mayachen", "https://linkedin.com/in/mayachen", "", "", "techcrunch.com"}

	r := recordFromRow(header, row)

	assert.Equal(t, "maya@techcrunch.com", r.Email)
	assert.Equal(t, "maya@techcrunch.com", r.IdentityKey)
	assert.Equal(t, "Maya Chen", r.FullName)
	assert.Equal(t, "mayachen", r.Handle("linkedin"))
	assert.Equal(t, "Senior Editor", r.JobTitle)
}

func TestRecordFromRow_HandleOnlyIdentity(t *testing.T) {
	header := []string{"email", "full_name", "twitter_handle"}
	row := []string{"", "Jordan Lee", "fitjordan"}

	r := recordFromRow(header, row)

	assert.Equal(t, "twitter:fitjordan", r.IdentityKey)
}

func TestReadContactCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "contacts.csv")
	csv := "platform,domain,email,full_name,first_name,last_name,job_title,linkedin_handle,linkedin_url,twitter_handle,twitter_url,source\n" +
		"Tech Media,techcrunch.com,maya@techcrunch.com,Maya Chen,Maya,Chen,Senior Editor,,,,,techcrunch.com\n" +
		"Other,example.com,,,,,,,,,,example.com\n" + // no identity key, dropped
		"Other,example.com,,Jordan Lee,,,,,,fitjordan,,example.com\n"
	require.NoError(t, os.WriteFile(path, []byte(csv), 0o644))

	records, err := readContactCSV(path)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "maya@techcrunch.com", records[0].IdentityKey)
	assert.Equal(t, "twitter:fitjordan", records[1].IdentityKey)
}

func TestReadContactCSV_MissingFile(t *testing.T) {
	_, err := readContactCSV(filepath.Join(t.TempDir(), "nope.csv"))
	assert.Error(t, err)
}
