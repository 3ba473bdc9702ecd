package config

const (
	loginViewVar   = "LOGIN_VIEW"
	defaultViewVar = "DEFAULT_VIEW"
)

type ViewConfig interface {
	GetLoginView() string
	GetDefaultView() string
}

type Views struct {
	values overrides
}

var _ ViewConfig = Views{}

func (v Views) GetLoginView() string {
	return v.values.get(loginViewVar, "/login")
}

// GetDefaultView is where an authenticated user lands after login
func (v Views) GetDefaultView() string {
	return v.values.get(defaultViewVar, "/dashboard")
}
