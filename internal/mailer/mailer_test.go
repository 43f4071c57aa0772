package mailer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	tests := []struct {
		name        string
		template    string
		data        any
		wantSubject string
		wantBody    []string
	}{
		{
			name:     "approved submission",
			template: SubmissionReviewedTemplate,
			data: map[string]any{
				"Username": "Asha", "PlaceName": "Cafe Mocha", "Status": "approved", "AdminNotes": "Welcome!",
			},
			wantSubject: "Your CityGuide submission Cafe Mocha was approved",
			wantBody:    []string{"Hello Asha", "is now listed", "Welcome!"},
		},
		{
			name:     "update on a removed place",
			template: UpdateReviewedTemplate,
			data: map[string]any{
				"Username": "Ravi", "PlaceName": "Old Fort", "Status": "approved", "PlaceMissing": true, "AdminNotes": "",
			},
			wantSubject: "Your changes to Old Fort were approved",
			wantBody:    []string{"had been removed"},
		},
		{
			name:        "owner reply",
			template:    ReviewRepliedTemplate,
			data:        map[string]any{"Username": "Neha", "PlaceName": "Lodhi Garden", "Reply": "Thank you!"},
			wantSubject: "Lodhi Garden replied to your review",
			wantBody:    []string{"Thank you!"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			subject, body, err := Render(tc.template, tc.data)
			require.NoError(t, err)
			assert.Equal(t, tc.wantSubject, subject)
			for _, want := range tc.wantBody {
				assert.Contains(t, body, want)
			}
		})
	}
}

func TestNewSMTPClient_RequiresHost(t *testing.T) {
	_, err := NewSMTPClient("", 587, "", "", "noreply@cityguide.app")
	assert.Error(t, err)

	c, err := NewSMTPClient("smtp.example.com", 587, "u", "p", "noreply@cityguide.app")
	require.NoError(t, err)
	assert.NotNil(t, c)
}
