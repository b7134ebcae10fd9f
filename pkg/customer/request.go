package customer

// CreateRequest is the payload for creating a customer. It carries every
// field except the identifier and timestamps.
type CreateRequest struct {
	FullName    string  `json:"nomeCompleto"    validate:"required,max=200"`
	Email       string  `json:"email"           validate:"required,email"`
	WhatsApp    string  `json:"whatsapp"        validate:"omitempty,phone"`
	Letter      string  `json:"letraAtual"      validate:"required,letter"`
	Level       string  `json:"nivel"           validate:"required,level"`
	YearJoined  int     `json:"anoIngresso"     validate:"omitempty,gte=1950,lte=2100"`
	ADTS        float64 `json:"adtsAtual"       validate:"gte=0,lte=100"`
	HasLawsuits bool    `json:"possuiProcessos"`
	Conditions  bool    `json:"conditions"`
	Newsletter  bool    `json:"newsletter"`
}

// UpdateRequest is a partial update payload. Only non-nil fields are sent.
type UpdateRequest struct {
	FullName    *string  `json:"nomeCompleto,omitempty"    validate:"omitempty,min=1,max=200"`
	Email       *string  `json:"email,omitempty"           validate:"omitempty,email"`
	WhatsApp    *string  `json:"whatsapp,omitempty"        validate:"omitempty,phone"`
	Letter      *string  `json:"letraAtual,omitempty"      validate:"omitempty,letter"`
	Level       *string  `json:"nivel,omitempty"           validate:"omitempty,level"`
	YearJoined  *int     `json:"anoIngresso,omitempty"     validate:"omitempty,gte=1950,lte=2100"`
	ADTS        *float64 `json:"adtsAtual,omitempty"       validate:"omitempty,gte=0,lte=100"`
	HasLawsuits *bool    `json:"possuiProcessos,omitempty"`
	Conditions  *bool    `json:"conditions,omitempty"`
	Newsletter  *bool    `json:"newsletter,omitempty"`
}

// Empty reports whether the update sets no fields.
func (u *UpdateRequest) Empty() bool {
	return u.FullName == nil &&
		u.Email == nil &&
		u.WhatsApp == nil &&
		u.Letter == nil &&
		u.Level == nil &&
		u.YearJoined == nil &&
		u.ADTS == nil &&
		u.HasLawsuits == nil &&
		u.Conditions == nil &&
		u.Newsletter == nil
}

// Diff returns an [UpdateRequest] containing only the fields of next that
// differ from prev.
func Diff(prev, next *Customer) *UpdateRequest {
	u := &UpdateRequest{}

	if prev.FullName != next.FullName {
		u.FullName = &next.FullName
	}
	if prev.Email != next.Email {
		u.Email = &next.Email
	}
	if prev.WhatsApp != next.WhatsApp {
		u.WhatsApp = &next.WhatsApp
	}
	if prev.Letter != next.Letter {
		u.Letter = &next.Letter
	}
	if prev.Level != next.Level {
		u.Level = &next.Level
	}
	if prev.YearJoined != next.YearJoined {
		u.YearJoined = &next.YearJoined
	}
	if prev.ADTS != next.ADTS {
		u.ADTS = &next.ADTS
	}
	if prev.HasLawsuits != next.HasLawsuits {
		u.HasLawsuits = &next.HasLawsuits
	}
	if prev.Conditions != next.Conditions {
		u.Conditions = &next.Conditions
	}
	if prev.Newsletter != next.Newsletter {
		u.Newsletter = &next.Newsletter
	}

	return u
}
