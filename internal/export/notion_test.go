package export

import (
	"context"
	"testing"

	"github.com/jomei/notionapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// mockNotion is a testify mock for the notion.Client interface.
type mockNotion struct {
	mock.Mock
}

func (m *mockNotion) QueryDatabase(ctx context.Context, dbID string, req *notionapi.DatabaseQueryRequest) (*notionapi.DatabaseQueryResponse, error) {
	args := m.Called(ctx, dbID, req)
	if resp := args.Get(0); resp != nil {
		return resp.(*notionapi.DatabaseQueryResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockNotion) CreatePage(ctx context.Context, req *notionapi.PageCreateRequest) (*notionapi.Page, error) {
	args := m.Called(ctx, req)
	if page := args.Get(0); page != nil {
		return page.(*notionapi.Page), args.Error(1)
	}
	return nil, args.Error(1)
}

func contactPage(email, linkedinURL string) notionapi.Page {
	props := notionapi.Properties{}
	if email != "" {
		props["Email"] = &notionapi.RichTextProperty{
			RichText: []notionapi.RichText{{PlainText: email}},
		}
	}
	if linkedinURL != "" {
		props["LinkedIn"] = &notionapi.URLProperty{URL: linkedinURL}
	}
	return notionapi.Page{Properties: props}
}

func TestNotionSinkExistingKeys(t *testing.T) {
	m := new(mockNotion)
	m.On("QueryDatabase", mock.Anything, "db-1", mock.Anything).
		Return(&notionapi.DatabaseQueryResponse{
			Results: []notionapi.Page{
				contactPage("jane@glossier.com", ""),
				contactPage("", "https://linkedin.com/in/johnroe"),
				contactPage("", ""),
			},
		}, nil)

	sink := &NotionSink{Client: m, DatabaseID: "db-1"}
	keys, err := sink.ExistingKeys(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"jane@glossier.com", "linkedin:johnroe"}, keys)
	m.AssertExpectations(t)
}

func TestNotionSinkAppendSkipsExisting(t *testing.T) {
	m := new(mockNotion)
	m.On("QueryDatabase", mock.Anything, "db-1", mock.Anything).
		Return(&notionapi.DatabaseQueryResponse{
			Results: []notionapi.Page{contactPage("jane@glossier.com", "")},
		}, nil)

	var created []*notionapi.PageCreateRequest
	m.On("CreatePage", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			created = append(created, args.Get(1).(*notionapi.PageCreateRequest))
		}).
		Return(&notionapi.Page{}, nil)

	sink := &NotionSink{Client: m, DatabaseID: "db-1"}
	n, err := sink.Append(context.Background(), testRecords())
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	require.Len(t, created, 1)
	req := created[0]
	assert.Equal(t, notionapi.DatabaseID("db-1"), req.Parent.DatabaseID)

	tp, ok := req.Properties["Name"].(notionapi.TitleProperty)
	require.True(t, ok)
	assert.Equal(t, "John Roe", tp.Title[0].Text.Content)

	rtp, ok := req.Properties["Email"].(notionapi.RichTextProperty)
	require.True(t, ok)
	assert.Equal(t, "john@glossier.com", rtp.RichText[0].Text.Content)
}

func TestNotionSinkQueryFailure(t *testing.T) {
	m := new(mockNotion)
	m.On("QueryDatabase", mock.Anything, "db-1", mock.Anything).
		Return(nil, assert.AnError)

	sink := &NotionSink{Client: m, DatabaseID: "db-1"}
	_, err := sink.Append(context.Background(), testRecords())
	assert.ErrorIs(t, err, ErrDestinationUnavailable)
}

func TestContactProperties(t *testing.T) {
	r := testRecords()[0]
	r.Tier = "Micro"
	r.FollowerCount = 25000
	r.MatchScore = 88

	props := contactProperties(r)

	sp, ok := props["Tier"].(notionapi.SelectProperty)
	require.True(t, ok)
	assert.Equal(t, "Micro", sp.Select.Name)

	np, ok := props["Followers"].(notionapi.NumberProperty)
	require.True(t, ok)
	assert.Equal(t, float64(25000), np.Number)

	_, ok = props["LinkedIn"]
	assert.False(t, ok, "no linkedin handle, no URL property")
}

func TestHandleFromURL(t *testing.T) {
	assert.Equal(t, "janedoe", handleFromURL("https://linkedin.com/in/janedoe"))
	assert.Equal(t, "janed", handleFromURL("https://twitter.com/janed/"))
	assert.Equal(t, "beautybyjane", handleFromURL("https://youtube.com/@beautybyjane"))
	assert.Empty(t, handleFromURL(""))
}
