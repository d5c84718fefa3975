package engine

import "fmt"

func (p Phase) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

func (p *Phase) UnmarshalText(b []byte) error {
	switch string(b) {
	case "large":
		*p = PhaseLarge
	case "top-off":
		*p = PhaseTopOff
	default:
		return fmt.Errorf("unknown phase %q", b)
	}
	return nil
}

func (o Op) MarshalText() ([]byte, error) { return []byte(o.String()), nil }

func (o *Op) UnmarshalText(b []byte) error {
	switch string(b) {
	case "write":
		*o = OpWrite
	case "verify":
		*o = OpVerify
	default:
		return fmt.Errorf("unknown op %q", b)
	}
	return nil
}

func (r StopReason) MarshalText() ([]byte, error) { return []byte(r.String()), nil }

func (r *StopReason) UnmarshalText(b []byte) error {
	for c := StopNone; c <= StopCanceled; c++ {
		if c.String() == string(b) {
			*r = c
			return nil
		}
	}
	return fmt.Errorf("unknown stop reason %q", b)
}
