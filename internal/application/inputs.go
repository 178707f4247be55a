package application

// Request shapes for every mutating operation. Rules live in the validate tags
// and are checked by validation.Validate before any store access.

type RegisterInput struct {
	Name            string `json:"name" validate:"notblank,min=2,max=30"`
	Email           string `json:"email" validate:"notblank,email"`
	Password        string `json:"password" validate:"notblank,pwd"`
	PasswordConfirm string `json:"passwordConfirm" validate:"notblank,eqfield=Password"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"notblank,email"`
	Password string `json:"password" validate:"notblank"`
}

// ProfileInput takes skills as a comma separated string and the social links
// as flat fields.
type ProfileInput struct {
	Handle         string `json:"handle" validate:"notblank,min=2,max=40"`
	Company        string `json:"company"`
	Website        string `json:"website" validate:"omitempty,url"`
	Location       string `json:"location"`
	Status         string `json:"status" validate:"notblank"`
	Skills         string `json:"skills" validate:"notblank"`
	Bio            string `json:"bio"`
	GithubUsername string `json:"githubUsername"`

	YouTube   string `json:"youtube" validate:"omitempty,url"`
	Twitter   string `json:"twitter" validate:"omitempty,url"`
	Facebook  string `json:"facebook" validate:"omitempty,url"`
	LinkedIn  string `json:"linkedin" validate:"omitempty,url"`
	Instagram string `json:"instagram" validate:"omitempty,url"`
}

type ExperienceInput struct {
	Title       string `json:"title" validate:"notblank"`
	Company     string `json:"company" validate:"notblank"`
	Location    string `json:"location"`
	From        string `json:"from" validate:"notblank,ymd"`
	To          string `json:"to" validate:"omitempty,ymd,excluded_if=Current true"`
	Current     bool   `json:"current"`
	Description string `json:"description"`
}

type EducationInput struct {
	School       string `json:"school" validate:"notblank"`
	Degree       string `json:"degree" validate:"notblank"`
	FieldOfStudy string `json:"fieldOfStudy" validate:"notblank"`
	From         string `json:"from" validate:"notblank,ymd"`
	To           string `json:"to" validate:"omitempty,ymd,excluded_if=Current true"`
	Current      bool   `json:"current"`
	Description  string `json:"description"`
}

type PostInput struct {
	Text string `json:"text" validate:"notblank,min=10,max=300"`
}

type CommentInput struct {
	Text string `json:"text" validate:"notblank,min=10,max=300"`
}
