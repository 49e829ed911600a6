package level

// File is one level: a name and an ordered list of obstacle records.
// All distances are in meters.
type File struct {
	Name      string   `yaml:"name" json:"name"`
	Obstacles []Record `yaml:"obstacles" json:"obstacles"`

	Source string `yaml:"-" json:"source,omitempty"`
}

// Record describes one obstacle. Y is only meaningful for plateformeAir,
// where it is the height of the platform's underside above the ground.
type Record struct {
	Type    string          `yaml:"type" json:"type"`
	X       float64         `yaml:"x" json:"x"`
	Y       *float64        `yaml:"y,omitempty" json:"y,omitempty"`
	Width   float64         `yaml:"width" json:"width"`
	Height  float64         `yaml:"height" json:"height"`
	Carried []CarriedRecord `yaml:"carried,omitempty" json:"carried,omitempty"`
}

// CarriedRecord is a child placed on top of its parent, RelativeX meters
// from the parent's left edge.
type CarriedRecord struct {
	Type      string  `yaml:"type" json:"type"`
	RelativeX float64 `yaml:"relative_x" json:"relative_x"`
	Width     float64 `yaml:"width" json:"width"`
	Height    float64 `yaml:"height" json:"height"`
}

// FinishX returns the x of the first finish record.
func (f *File) FinishX() (float64, bool) {
	for _, r := range f.Obstacles {
		if r.Type == "finish" {
			return r.X, true
		}
	}
	return 0, false
}

// Extent returns the right edge, in meters, of the furthest record.
func (f *File) Extent() float64 {
	var max float64
	for _, r := range f.Obstacles {
		if right := r.X + r.Width; right > max {
			max = right
		}
		for _, c := range r.Carried {
			if right := r.X + c.RelativeX + c.Width; right > max {
				max = right
			}
		}
	}
	return max
}
