package config

// KeyMappings defines all configurable key bindings
type KeyMappings struct {
	// Deals
	GrabDeal   string `yaml:"grab_deal"`
	DropDeal   string `yaml:"drop_deal"`
	CancelDrag string `yaml:"cancel_drag"`

	// Navigation
	PrevStage string `yaml:"prev_stage"`
	NextStage string `yaml:"next_stage"`
	PrevDeal  string `yaml:"prev_deal"`
	NextDeal  string `yaml:"next_deal"`

	// Filtering
	Search         string `yaml:"search"`
	CyclePriority  string `yaml:"cycle_priority"`
	ClearFilters   string `yaml:"clear_filters"`

	// Other
	Refresh             string `yaml:"refresh"`
	DismissNotification string `yaml:"dismiss_notification"`
	ShowHelp            string `yaml:"show_help"`
	Quit                string `yaml:"quit"`
}

// DefaultKeyMappings returns the default key mappings
func DefaultKeyMappings() KeyMappings {
	return KeyMappings{
		GrabDeal:   " ",
		DropDeal:   "enter",
		CancelDrag: "esc",

		PrevStage: "h",
		NextStage: "l",
		PrevDeal:  "k",
		NextDeal:  "j",

		Search:        "/",
		CyclePriority: "p",
		ClearFilters:  "c",

		Refresh:             "r",
		DismissNotification: "x",
		ShowHelp:            "?",
		Quit:                "q",
	}
}

// applyDefaults fills empty bindings with their defaults so a partial
// key_mappings block in config.yaml does not disable keys.
func (k *KeyMappings) applyDefaults() {
	def := DefaultKeyMappings()
	if k.GrabDeal == "" {
		k.GrabDeal = def.GrabDeal
	}
	if k.DropDeal == "" {
		k.DropDeal = def.DropDeal
	}
	if k.CancelDrag == "" {
		k.CancelDrag = def.CancelDrag
	}
	if k.PrevStage == "" {
		k.PrevStage = def.PrevStage
	}
	if k.NextStage == "" {
		k.NextStage = def.NextStage
	}
	if k.PrevDeal == "" {
		k.PrevDeal = def.PrevDeal
	}
	if k.NextDeal == "" {
		k.NextDeal = def.NextDeal
	}
	if k.Search == "" {
		k.Search = def.Search
	}
	if k.CyclePriority == "" {
		k.CyclePriority = def.CyclePriority
	}
	if k.ClearFilters == "" {
		k.ClearFilters = def.ClearFilters
	}
	if k.Refresh == "" {
		k.Refresh = def.Refresh
	}
	if k.DismissNotification == "" {
		k.DismissNotification = def.DismissNotification
	}
	if k.ShowHelp == "" {
		k.ShowHelp = def.ShowHelp
	}
	if k.Quit == "" {
		k.Quit = def.Quit
	}
}
