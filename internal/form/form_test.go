package form

import (
	"context"
	"net/url"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contacts/internal/session/store"
	"contacts/pkg/requestcontext"
)

type phoneRow struct {
	Type   string `form:"type" validate:"required_with=Number" msg:"Select the type of phone number"`
	Number string `form:"number" validate:"omitempty,max=20" msg:"Phone number must be 20 characters or less"`
}

func (r phoneRow) Blank() bool { return r.Type == "" && r.Number == "" }

type contactForm struct {
	LastName  string     `form:"lastName" validate:"required,max=35" msg-required:"Enter the contact's last name" msg-max:"Last name must be 35 characters or less"`
	FirstName string     `form:"firstName" validate:"required" msg:"Enter the contact's first name"`
	DOB       DateParts  `form:"dob"`
	Emergency string     `form:"emergency" validate:"yesno"`
	Phones    []phoneRow `form:"phones" validate:"dive"`
	Agree     bool       `form:"agree"`
}

func (f *contactForm) Check() FieldErrors {
	return f.DOB.Check("dob", false, "date of birth")
}

func TestDecode(t *testing.T) {
	values := url.Values{
		"lastName":         {"  Smith "},
		"firstName":        {"Alice"},
		"dob.day":          {"3"},
		"dob.month":        {"4"},
		"dob.year":         {"1980"},
		"phones[0].type":   {"MOB"},
		"phones[0].number": {"0777"},
		"phones[2].number": {"0123"},
		"phones[x].number": {"ignored"},
		"agree":            {"on"},
	}
	var f contactForm
	require.NoError(t, Decode(values, &f))

	assert.Equal(t, "Smith", f.LastName)
	assert.Equal(t, DateParts{Day: "3", Month: "4", Year: "1980"}, f.DOB)
	require.Len(t, f.Phones, 3, "a gap in row indexes becomes a blank row")
	assert.Equal(t, phoneRow{Type: "MOB", Number: "0777"}, f.Phones[0])
	assert.True(t, f.Phones[1].Blank())
	assert.Equal(t, "0123", f.Phones[2].Number)
	assert.True(t, f.Agree)
}

func TestDecodeRejectsNonPointer(t *testing.T) {
	assert.Error(t, Decode(url.Values{}, contactForm{}))
}

func TestValidateOrdersErrorsLikeThePage(t *testing.T) {
	f := &contactForm{
		DOB:       DateParts{Day: "31", Month: "2", Year: "2001"},
		Emergency: "MAYBE",
		Phones:    []phoneRow{{Number: "1"}, {Number: "012345678901234567890"}},
	}
	errs, err := Validate(f)
	require.NoError(t, err)

	fields := make([]string, len(errs))
	for i, e := range errs {
		fields[i] = e.Field
	}
	assert.Equal(t, []string{
		"lastName",
		"firstName",
		"dob.day",
		"emergency",
		"phones[0].type",
		"phones[1].type",
		"phones[1].number",
	}, fields)

	assert.Equal(t, "Enter the contact's last name", errs.For("lastName"))
	assert.Equal(t, "Enter the contact's first name", errs.For("firstName"))
	assert.Equal(t, "The date of birth must be a real date", errs.For("dob.day"))
	assert.Equal(t, "Select an option", errs.For("emergency"))
	assert.Equal(t, "Phone number must be 20 characters or less", errs.For("phones[1].number"))
}

func TestValidateUsesRuleSpecificMessage(t *testing.T) {
	f := &contactForm{LastName: "abcdefghijabcdefghijabcdefghijabcdefghij", FirstName: "A"}
	errs, err := Validate(f)
	require.NoError(t, err)
	assert.Equal(t, "Last name must be 35 characters or less", errs.For("lastName"))
}

func TestValidatePasses(t *testing.T) {
	errs, err := Validate(&contactForm{LastName: "Smith", FirstName: "Alice", Emergency: "YES"})
	require.NoError(t, err)
	assert.Nil(t, errs)
}

func TestParseAction(t *testing.T) {
	cases := map[string]Action{
		"":          {},
		"add":       {Name: ActionAdd},
		"remove:2":  {Name: ActionRemove, Index: 2},
		"remove:x":  {Name: ActionRemove, Index: -1},
		"delete:0":  {Name: "delete", Index: 0},
		" add-new ": {Name: "add-new"},
	}
	for raw, want := range cases {
		got := ParseAction(url.Values{ActionField: {raw}})
		assert.Equal(t, want, got, raw)
	}
	assert.True(t, ParseAction(url.Values{}).IsContinue())
	assert.True(t, Action{Name: ActionAdd}.IsRowAction())
	assert.False(t, Action{Name: "delete"}.IsRowAction())
}

func TestApplyRowAction(t *testing.T) {
	rows := []phoneRow{{Number: "1"}, {Number: "2"}, {Number: "3"}}

	added := ApplyRowAction(rows, Action{Name: ActionAdd})
	require.Len(t, added, 4)
	assert.True(t, added[3].Blank())

	removed := ApplyRowAction(rows, Action{Name: ActionRemove, Index: 1})
	assert.Equal(t, []phoneRow{{Number: "1"}, {Number: "3"}}, removed)
	assert.Len(t, rows, 3, "original rows are not modified")

	assert.Equal(t, rows, ApplyRowAction(rows, Action{Name: ActionRemove, Index: 7}))
	assert.Len(t, ApplyRowAction[phoneRow](nil, Action{Name: ActionAdd}), 1)
}

func TestCompact(t *testing.T) {
	assert.Nil(t, Compact([]phoneRow{{}, {}, {}}), "all blank rows are the same as no rows")
	assert.Nil(t, Compact[phoneRow](nil))
	assert.Equal(t, []phoneRow{{Number: "2"}}, Compact([]phoneRow{{}, {Number: "2"}, {}}))
}

func TestDateParts(t *testing.T) {
	d, ok := DateParts{Day: "29", Month: "2", Year: "2024"}.Date()
	require.True(t, ok)
	assert.Equal(t, civil.Date{Year: 2024, Month: time.February, Day: 29}, d)

	_, ok = DateParts{Day: "29", Month: "2", Year: "2023"}.Date()
	assert.False(t, ok)
	_, ok = DateParts{Day: "1", Month: "1", Year: "24"}.Date()
	assert.False(t, ok)

	assert.Equal(t, DateParts{Day: "5", Month: "11", Year: "1999"}, DatePartsOf(&civil.Date{Year: 1999, Month: 11, Day: 5}))
	assert.True(t, DatePartsOf(nil).Blank())

	assert.Nil(t, DateParts{}.Check("dob", false, "date"))
	assert.Len(t, DateParts{}.Check("dob", true, "date"), 1)

	m, ok := MonthYear{Month: "6", Year: "2020"}.Date()
	require.True(t, ok)
	assert.Equal(t, civil.Date{Year: 2020, Month: time.June, Day: 1}, m)
}

func TestFlash(t *testing.T) {
	flasher := NewFlasher(store.NewMemory())
	ctx := requestcontext.WithSessionID(context.Background(), "sess-1")

	submitted := contactForm{LastName: "Smi", Phones: []phoneRow{{Number: "1"}, {}}}
	errs := FieldErrors{Err("firstName", "Enter the contact's first name")}
	require.NoError(t, flasher.Put(ctx, "/step/a", submitted, errs))

	fl, err := flasher.Take(ctx, "/step/a")
	require.NoError(t, err)
	require.NotNil(t, fl)
	var got contactForm
	require.NoError(t, fl.Into(&got))
	assert.Equal(t, submitted, got)
	assert.Equal(t, "Enter the contact's first name", fl.Errors.For("firstName"))

	fl, err = flasher.Take(ctx, "/step/a")
	require.NoError(t, err)
	assert.Nil(t, fl, "a flash is shown once")
}

func TestFlashDoesNotLeakToOtherPages(t *testing.T) {
	flasher := NewFlasher(store.NewMemory())
	ctx := requestcontext.WithSessionID(context.Background(), "sess-1")

	require.NoError(t, flasher.Put(ctx, "/step/a", contactForm{LastName: "x"}, nil))

	fl, err := flasher.Take(ctx, "/step/b")
	require.NoError(t, err)
	assert.Nil(t, fl)

	fl, err = flasher.Take(ctx, "/step/a")
	require.NoError(t, err)
	assert.Nil(t, fl, "visiting another page discards the pending flash")
}

func TestFlashRequiresSession(t *testing.T) {
	flasher := NewFlasher(store.NewMemory())
	assert.Error(t, flasher.Put(context.Background(), "/a", contactForm{}, nil))
}
