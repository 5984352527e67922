package dashboard

// Profile is the static bio page content.
type Profile struct {
	Name     string   `json:"name"`
	Program  string   `json:"program"`
	Intro    string   `json:"intro"`
	FunFacts []string `json:"funFacts"`
	Photo    string   `json:"photo"`
}

func NewProfile(name, program, intro, photo string) Profile {
	return Profile{
		Name:    name,
		Program: program,
		Intro:   intro,
		FunFacts: []string{
			"I love data visualization",
			"I'm learning Go",
			"I want to build a Network Project",
		},
		Photo: photo,
	}
}
