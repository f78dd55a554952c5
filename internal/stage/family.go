/*
Copyright 2026 The planx Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package stage

import "fmt"

// Family identifies one capacity-variable family. The set is closed: every
// family the engine can link or track is enumerated here, and each carries
// its own strongly typed name accessors.
type Family int

// enumeration of Family
const (
	// Discharge is nameplate generation / storage discharge power capacity.
	Discharge Family = iota
	// Energy is storage energy capacity (MWh).
	Energy
	// Charge is symmetric storage charge power capacity.
	Charge
	// Transmission is inter-zonal line transfer capacity.
	Transmission
	// HybridDC is the shared DC-side capacity of a VRE-hybrid plant.
	HybridDC
	// HybridSolar is the solar sub-capacity of a VRE-hybrid plant.
	HybridSolar
	// HybridWind is the wind sub-capacity of a VRE-hybrid plant.
	HybridWind
	// ChargeDC / DischargeDC are the asymmetric DC-coupled storage capacities.
	ChargeDC
	DischargeDC
	// ChargeAC / DischargeAC are the asymmetric AC-coupled storage capacities.
	ChargeAC
	DischargeAC
	// Electrolyzer is hydrogen electrolyzer capacity.
	Electrolyzer

	numFamilies
)

// AllFamilies returns every family in declaration order.
func AllFamilies() []Family {
	out := make([]Family, numFamilies)
	for i := range out {
		out[i] = Family(i)
	}
	return out
}

// token is the family's infix inside variable and constraint names.
func (f Family) token() string {
	switch f {
	case Discharge:
		return ""
	case Energy:
		return "Energy"
	case Charge:
		return "Charge"
	case Transmission:
		return "Trans"
	case HybridDC:
		return "DC"
	case HybridSolar:
		return "Solar"
	case HybridWind:
		return "Wind"
	case ChargeDC:
		return "ChargeDC"
	case DischargeDC:
		return "DischargeDC"
	case ChargeAC:
		return "ChargeAC"
	case DischargeAC:
		return "DischargeAC"
	case Electrolyzer:
		return "Electrolyzer"
	default:
		panic(fmt.Sprintf("unknown family %d", int(f)))
	}
}

// String returns a lowercase family label used in inputs and logs.
func (f Family) String() string {
	switch f {
	case Discharge:
		return "discharge"
	case Energy:
		return "energy"
	case Charge:
		return "charge"
	case Transmission:
		return "transmission"
	case HybridDC:
		return "hybrid_dc"
	case HybridSolar:
		return "hybrid_solar"
	case HybridWind:
		return "hybrid_wind"
	case ChargeDC:
		return "charge_dc"
	case DischargeDC:
		return "discharge_dc"
	case ChargeAC:
		return "charge_ac"
	case DischargeAC:
		return "discharge_ac"
	case Electrolyzer:
		return "electrolyzer"
	default:
		return fmt.Sprintf("Family(%d)", int(f))
	}
}

// ParseFamily converts an input label to a Family.
func ParseFamily(s string) (Family, error) {
	for _, f := range AllFamilies() {
		if f.String() == s {
			return f, nil
		}
	}
	return 0, fmt.Errorf("unknown capacity family %q", s)
}

// StartVar is the stage-local starting-capacity variable name.
func (f Family) StartVar() string { return "Start" + f.token() + "Cap" }

// NewVar is the newly built capacity variable name.
func (f Family) NewVar() string { return "New" + f.token() + "Cap" }

// RetVar is the retired capacity variable name.
func (f Family) RetVar() string { return "Ret" + f.token() + "Cap" }

// EndExpr is the ending-capacity expression name (Start + New - Ret).
func (f Family) EndExpr() string { return "End" + f.token() + "Cap" }

// StartConstraint pins StartVar inside a single stage model. In joint-graph
// mode the cross-stage link supersedes it for linked resources.
func (f Family) StartConstraint() string { return "cStart" + f.token() + "Cap" }

// LinkConstraint is the cross-stage equality name.
func (f Family) LinkConstraint() string { return "cLink" + f.token() + "Cap" }

// MaxRetConstraint caps retirement at the stage's starting capacity.
func (f Family) MaxRetConstraint() string { return "cMaxRet" + f.token() + "Cap" }

// TrackVar is the vintage-indexed built-capacity tracking variable name.
func (f Family) TrackVar() string { return f.token() + "CapTrack" }

// TrackConstraint is the vintage tracking constraint name.
func (f Family) TrackConstraint() string { return "c" + f.token() + "CapTrack" }

// RetTrackVar mirrors TrackVar for retired capacity.
func (f Family) RetTrackVar() string { return "Ret" + f.token() + "CapTrack" }

// RetTrackConstraint mirrors TrackConstraint for retired capacity.
func (f Family) RetTrackConstraint() string { return "cRet" + f.token() + "CapTrack" }

// Tracked reports whether the family participates in vintage tracking.
// Transmission capacity has no endogenous retirement, so it is linked across
// stages but never tracked by vintage.
func (f Family) Tracked() bool { return f != Transmission }

// AlwaysLinked reports whether resources of this family join the cross-stage
// link set regardless of their retire/new-build flags. Network capacity is
// implicitly expandable whenever expansion is on, so transmission always links.
func (f Family) AlwaysLinked() bool { return f == Transmission }

// Key renders a resource-indexed name, e.g. Key("StartCap", "battery").
func Key(base, resource string) string {
	return base + "[" + resource + "]"
}

// VintageKey renders a (resource, vintage)-indexed name,
// e.g. VintageKey("CapTrack", "battery", 2).
func VintageKey(base, resource string, vintage int) string {
	return fmt.Sprintf("%s[%s,%d]", base, resource, vintage)
}
