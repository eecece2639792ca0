package extraction

// mobileSeparator joins phone numbers once two of them have been seen.
const mobileSeparator = " & "

// Record is the structured contact extracted from one card.
type Record struct {
	Website      Field `json:"website"`
	Email        Field `json:"email"`
	MobileNumber Field `json:"mobile_number"`
	CompanyName  Field `json:"company_name"`
	CardHolder   Field `json:"card_holder"`
	Designation  Field `json:"designation"`
	Area         Field `json:"area"`
	City         Field `json:"city"`
	State        Field `json:"state"`
	PinCode      Field `json:"pin_code"`
}

// addMobile appends a phone number. The list collapses into one joined string
// the moment it holds two entries; later numbers extend that string.
func (r *Record) addMobile(v string) {
	if r.MobileNumber.Shape() == Single {
		r.MobileNumber.overwrite(r.MobileNumber.single + mobileSeparator + v)
		return
	}
	r.MobileNumber.add(v)
	if r.MobileNumber.Len() == 2 {
		r.MobileNumber.collapse(mobileSeparator)
	}
}

// addState appends a state candidate and keeps only the newest once two exist.
func (r *Record) addState(v string) {
	r.State.add(v)
	if r.State.Len() == 2 {
		r.State.dropOldest()
	}
}
