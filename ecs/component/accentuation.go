package component

// Accentuation is a highlight factor in [0,1].
type Accentuation struct {
	Factor float32
}

func (a *Accentuation) AccentuationFactor() float32 { return a.Factor }

func (a *Accentuation) SetAccentuationFactor(f float32) {
	a.Factor = min(max(f, 0), 1)
}

var AccentuationComponent = NewComponent[Accentuation]()
