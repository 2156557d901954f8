package shopper

type Shopper struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	Surname   string `json:"surname"`
}

// DisplayName is what the session greets the shopper with.
func (s Shopper) DisplayName() string {
	return s.FirstName
}

func (s Shopper) FullName() string {
	if s.Surname == "" {
		return s.FirstName
	}
	return s.FirstName + " " + s.Surname
}
