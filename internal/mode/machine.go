package mode

// Machine tracks the current mode plus the two return slots it needs:
// one for leaving Help and one for cancelling out of a text prompt.
// Neither slot is a stack; reopening overwrites it.
type Machine struct {
	current    Mode
	helpReturn Mode
	textReturn Mode
}

// NewMachine returns a machine in Common mode
func NewMachine() *Machine {
	return &Machine{current: Common, helpReturn: Common, textReturn: Common}
}

// Current returns the active mode
func (m *Machine) Current() Mode {
	return m.current
}

// Previous returns the mode Cancel would go back to from the current mode
func (m *Machine) Previous() Mode {
	switch {
	case m.current == Help:
		return m.helpReturn
	case m.current.IsText():
		return m.textReturn
	default:
		return m.current
	}
}

// Switch moves to the target mode and reports whether the mode changed.
// Switching to the mode that is already active is a no-op, which makes
// Help from Help a no-op as well.
func (m *Machine) Switch(to Mode) bool {
	if to == m.current {
		return false
	}

	switch {
	case to == Help:
		m.helpReturn = m.current
	case to.IsText() && !m.current.IsText():
		if m.current == Help {
			m.textReturn = m.helpReturn
		} else {
			m.textReturn = m.current
		}
	}

	m.current = to
	return true
}

// Cancel leaves Help or a text prompt without side effects and returns the
// mode that is now active. In any other mode it does nothing.
func (m *Machine) Cancel() Mode {
	switch {
	case m.current == Help:
		m.current = m.helpReturn
	case m.current.IsText():
		m.current = m.textReturn
	}
	return m.current
}

// Submit leaves a text prompt after its value has been turned into a query.
// The browsing view is always where results show up.
func (m *Machine) Submit() Mode {
	if m.current.IsText() {
		m.current = Common
	}
	return m.current
}
