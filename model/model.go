package model

// SourceRole marks a pipe as either a driver of the thermal field or a
// passive receiver whose temperature is computed.
type SourceRole string

const (
	RoleHeatSource SourceRole = "heat_source"
	RoleAffected   SourceRole = "affected"
)

// Orientation is the horizontal axis a pipe runs along. Parallel pipes run
// along the y axis, perpendicular pipes along the x axis; the solved physics
// is always the 2D cross-section normal to the pipe axis.
type Orientation string

const (
	OrientationParallel      Orientation = "parallel"
	OrientationPerpendicular Orientation = "perpendicular"
)

// SoilLayer is one entry of the ordered layer stack. DepthTop/DepthBottom are
// recomputed from the accumulated thicknesses on every calculation, the input
// only needs Conductivity and Thickness.
type SoilLayer struct {
	Conductivity float64 `json:"conductivity"`
	Thickness    float64 `json:"thickness"`
	DepthTop     float64 `json:"depth_top"`
	DepthBottom  float64 `json:"depth_bottom"`
}

// Pipe is a pure value record, SI units throughout. Z is depth below ground,
// positive downward, and must exceed TotalOuterRadius before any solve.
// Temperature is required iff Role is RoleHeatSource.
type Pipe struct {
	ID          int         `json:"id"`
	Name        string      `json:"name"`
	Role        SourceRole  `json:"role"`
	Orientation Orientation `json:"orientation"`

	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`

	Temperature *float64 `json:"temperature,omitempty"`

	OuterDiameter       float64 `json:"outer_diameter"`
	WallThickness       float64 `json:"wall_thickness"`
	InsulationThickness float64 `json:"insulation_thickness"`
	BeddingThickness    float64 `json:"bedding_thickness"`

	ConductivityPipe       float64 `json:"conductivity_pipe"`
	ConductivityInsulation float64 `json:"conductivity_insulation"`
	ConductivityBedding    float64 `json:"conductivity_bedding"`

	// catalog preset ids, an alternative to giving conductivities directly
	PipeMaterialID       int `json:"pipe_material_id,omitempty"`
	InsulationMaterialID int `json:"insulation_material_id,omitempty"`
	BeddingMaterialID    int `json:"bedding_material_id,omitempty"`
}

func (p Pipe) IsHeatSource() bool {
	return p.Role == RoleHeatSource
}

// OuterRadius is the bare pipe radius.
func (p Pipe) OuterRadius() float64 {
	return p.OuterDiameter / 2
}

func (p Pipe) InsulationOuterRadius() float64 {
	return p.OuterRadius() + p.InsulationThickness
}

// TotalOuterRadius includes insulation and bedding.
func (p Pipe) TotalOuterRadius() float64 {
	return p.InsulationOuterRadius() + p.BeddingThickness
}

// SourceResult holds the four series resistances (K·m/W) and the resulting
// linear heat flux (W/m) of one heat source. Recomputed every solve.
type SourceResult struct {
	PipeID      int     `json:"pipe_id"`
	RPipe       float64 `json:"r_pipe"`
	RInsulation float64 `json:"r_insulation"`
	RBedding    float64 `json:"r_bedding"`
	RSoil       float64 `json:"r_soil"`
	RTotal      float64 `json:"r_total"`
	Q           float64 `json:"q"`
}

// InteractionResult is the contribution of one source to one affected pipe.
type InteractionResult struct {
	SourcePipeID     int     `json:"source_pipe_id"`
	PathConductivity float64 `json:"path_conductivity"`
	RealDistance     float64 `json:"real_distance"`
	ImageDistance    float64 `json:"image_distance"`
	TemperatureRise  float64 `json:"temperature_rise"`
}

// AffectedResult is the full result tree of one pipe. For a heat source the
// interaction list is empty and Temperature is the pipe's own fixed input.
type AffectedResult struct {
	PipeID       int                 `json:"pipe_id"`
	Interactions []InteractionResult `json:"interactions"`
	TotalRise    float64             `json:"total_rise"`
	Temperature  float64             `json:"temperature"`
}

// GridSpec is the axis-aligned box and per-axis sample counts for 3D lattice
// sampling. Zero counts fall back to the configured default resolution.
type GridSpec struct {
	MinX float64 `json:"min_x"`
	MaxX float64 `json:"max_x"`
	MinY float64 `json:"min_y"`
	MaxY float64 `json:"max_y"`
	MinZ float64 `json:"min_z"`
	MaxZ float64 `json:"max_z"`
	NX   int     `json:"nx"`
	NY   int     `json:"ny"`
	NZ   int     `json:"nz"`
}

// HeatmapSpec samples a vertical (x, z) cross-section at a fixed y.
type HeatmapSpec struct {
	Y    float64 `json:"y"`
	MinX float64 `json:"min_x"`
	MaxX float64 `json:"max_x"`
	MinZ float64 `json:"min_z"`
	MaxZ float64 `json:"max_z"`
	NX   int     `json:"nx"`
	NZ   int     `json:"nz"`
}

// FluxVector is a finite-difference estimate of the heat flux density at one
// cross-section cell, used by the arrow overlay.
type FluxVector struct {
	X  float64 `json:"x"`
	Z  float64 `json:"z"`
	QX float64 `json:"qx"`
	QZ float64 `json:"qz"`
}

// Scenario is the unit of input the server consumes: everything a single
// calculation needs, already parsed and unit-converted by the UI.
type Scenario struct {
	SoilTemperature float64     `json:"soil_temperature"`
	SoilLayers      []SoilLayer `json:"soil_layers"`
	Pipes           []Pipe      `json:"pipes"`
	Grid            GridSpec    `json:"grid"`
	Heatmap         HeatmapSpec `json:"heatmap"`
	Isovalues       []float64   `json:"isovalues"`
}

// Msg is the websocket envelope shared with the front end.
type Msg struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}
