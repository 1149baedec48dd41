package paths

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaths(t *testing.T) {
	assert.Equal(t, "/prisoner/A1234BC/contacts/list", ContactList("A1234BC"))
	assert.Equal(t, "/prisoner/A1234BC/contacts/manage/7/relationship/9", ContactDetails("A1234BC", 7, 9))
	assert.Equal(t, "/prisoner/A1234BC/contacts/create/start", Start(AddContact("A1234BC")))
	assert.Equal(t, "/prisoner/A1234BC/contacts/manage/7/relationship/9/address/cancel/j1", Cancel(Address("A1234BC", 7, 9), "j1"))
	assert.Equal(t, "/prisoner/A1234BC/contacts/manage/7/relationship/9/restriction/add/CONTACT_GLOBAL", Restriction("A1234BC", 7, 9, "CONTACT_GLOBAL"))
	assert.Equal(t, "/prisoner/A1234BC/contacts/manage/7/relationship/9/edit", Relationship("A1234BC", 7, 9))
	assert.Equal(t, "/contacts/manage/7/update-employments", UpdateEmployments(7))
	assert.Equal(t, "/contacts/manage/7", Contact(7))
	assert.Equal(t, "/journeys/relationship/j%201/conflict", Conflict("relationship", "j 1"))
}

func TestLocal(t *testing.T) {
	tests := map[string]string{
		"":                         "/home",
		"/contacts/manage/7":       "/contacts/manage/7",
		"https://evil.example.com": "/home",
		"//evil.example.com":       "/home",
		`/\evil.example.com`:       "/home",
	}
	for raw, want := range tests {
		assert.Equal(t, want, Local(raw, "/home"), raw)
	}
}
