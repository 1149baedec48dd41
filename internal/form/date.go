package form

import (
	"strconv"
	"time"

	"cloud.google.com/go/civil"
)

// DateParts is a date typed into separate day, month and year inputs.
type DateParts struct {
	Day   string `form:"day"`
	Month string `form:"month"`
	Year  string `form:"year"`
}

// DatePartsOf fills the inputs from a stored date.
func DatePartsOf(d *civil.Date) DateParts {
	if d == nil {
		return DateParts{}
	}
	return DateParts{
		Day:   strconv.Itoa(d.Day),
		Month: strconv.Itoa(int(d.Month)),
		Year:  strconv.Itoa(d.Year),
	}
}

func (p DateParts) Blank() bool {
	return p.Day == "" && p.Month == "" && p.Year == ""
}

// Date parses the parts; ok is false for blank, partial or impossible dates.
func (p DateParts) Date() (civil.Date, bool) {
	day, err1 := strconv.Atoi(p.Day)
	month, err2 := strconv.Atoi(p.Month)
	year, err3 := strconv.Atoi(p.Year)
	if err1 != nil || err2 != nil || err3 != nil || year < 1000 || year > 9999 {
		return civil.Date{}, false
	}
	d := civil.Date{Year: year, Month: time.Month(month), Day: day}
	if !d.IsValid() {
		return civil.Date{}, false
	}
	return d, true
}

// Check validates the parts as a date under field. Blank parts pass unless
// required.
func (p DateParts) Check(field string, required bool, label string) FieldErrors {
	if p.Blank() {
		if required {
			return FieldErrors{Err(field+".day", "Enter the "+label)}
		}
		return nil
	}
	if _, ok := p.Date(); !ok {
		return FieldErrors{Err(field+".day", "The "+label+" must be a real date")}
	}
	return nil
}

// MonthYear is a month and year without a day, used for address dates.
type MonthYear struct {
	Month string `form:"month"`
	Year  string `form:"year"`
}

// MonthYearOf fills the inputs from a stored date.
func MonthYearOf(d *civil.Date) MonthYear {
	if d == nil {
		return MonthYear{}
	}
	return MonthYear{Month: strconv.Itoa(int(d.Month)), Year: strconv.Itoa(d.Year)}
}

func (p MonthYear) Blank() bool {
	return p.Month == "" && p.Year == ""
}

// Date is the first day of the month.
func (p MonthYear) Date() (civil.Date, bool) {
	return DateParts{Day: "1", Month: p.Month, Year: p.Year}.Date()
}

// Check validates the parts under field.
func (p MonthYear) Check(field string, required bool, label string) FieldErrors {
	if p.Blank() {
		if required {
			return FieldErrors{Err(field+".month", "Enter the "+label)}
		}
		return nil
	}
	if _, ok := p.Date(); !ok {
		return FieldErrors{Err(field+".month", "The "+label+" must be a real date")}
	}
	return nil
}

// OptionalDate converts parts to a pointer, nil when blank or invalid.
func OptionalDate(d civil.Date, ok bool) *civil.Date {
	if !ok {
		return nil
	}
	return &d
}
