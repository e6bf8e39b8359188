package server

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pipefield/material"
	"pipefield/model"
)

func testScenario(t *testing.T) string {
	t.Helper()
	temp := 90.0
	s := model.Scenario{
		SoilTemperature: 10,
		SoilLayers: []model.SoilLayer{
			{Conductivity: 1.5, Thickness: 10},
		},
		Pipes: []model.Pipe{
			{
				ID: 1, Name: "supply", Role: model.RoleHeatSource,
				Orientation: model.OrientationParallel,
				X:           0, Z: 1.2, Temperature: &temp,
				OuterDiameter: 0.2, WallThickness: 0.01, ConductivityPipe: 50,
			},
			{
				ID: 2, Name: "water main", Role: model.RoleAffected,
				Orientation: model.OrientationParallel,
				X:           1.5, Z: 1.2,
				OuterDiameter: 0.1, WallThickness: 0.005, ConductivityPipe: 50,
			},
		},
		Grid:      model.GridSpec{MinX: -2, MaxX: 2, MinY: -2, MaxY: 2, MinZ: 0, MaxZ: 3, NX: 6, NY: 6, NZ: 6},
		Heatmap:   model.HeatmapSpec{Y: 0, MinX: -2, MaxX: 2, MinZ: 0, MaxZ: 3, NX: 5, NZ: 5},
		Isovalues: []float64{20, 15},
	}
	data, err := json.Marshal(s)
	require.NoError(t, err)
	return string(data)
}

func solvedHub(t *testing.T) *Hub {
	t.Helper()
	h := NewHub()
	require.Equal(t, "scenarioSet", h.setScenario(testScenario(t)).Type)
	require.Equal(t, "solved", h.solve().Type)
	return h
}

func TestSetScenarioRejectsBadJSON(t *testing.T) {
	h := NewHub()
	reply := h.setScenario("{not json")
	assert.Equal(t, "error", reply.Type)
	assert.Contains(t, reply.Content, "bad scenario")
}

func TestSetScenarioRejectsInvalidScenario(t *testing.T) {
	h := NewHub()
	// heat source without a temperature
	reply := h.setScenario(`{"soil_layers":[{"conductivity":1.5,"thickness":10}],` +
		`"pipes":[{"id":1,"role":"heat_source","z":1.2,"outer_diameter":0.2,` +
		`"wall_thickness":0.01,"conductivity_pipe":50}]}`)
	assert.Equal(t, "error", reply.Type)
}

func TestSetScenarioResetsSolvedState(t *testing.T) {
	h := solvedHub(t)
	require.NotNil(t, h.eval)

	reply := h.setScenario(testScenario(t))
	assert.Equal(t, "scenarioSet", reply.Type)
	assert.Nil(t, h.eval)
	assert.Nil(t, h.sources)
}

func TestSolveWithoutScenario(t *testing.T) {
	h := NewHub()
	assert.Equal(t, "error", h.solve().Type)
}

func TestSolve(t *testing.T) {
	h := NewHub()
	require.Equal(t, "scenarioSet", h.setScenario(testScenario(t)).Type)

	reply := h.solve()
	require.Equal(t, "solved", reply.Type)

	var solved SolveReply
	require.NoError(t, json.Unmarshal([]byte(reply.Content), &solved))
	require.Len(t, solved.Sources, 1)
	assert.Equal(t, 1, solved.Sources[0].PipeID)
	assert.Greater(t, solved.Sources[0].Q, 0.0)

	require.Len(t, solved.Affected, 2)
	for _, a := range solved.Affected {
		if a.PipeID == 2 {
			assert.Greater(t, a.Temperature, 10.0)
			assert.Len(t, a.Interactions, 1)
		}
	}
}

func TestSetScenarioResolvesMaterialPresets(t *testing.T) {
	h := NewHub()
	reply := h.setScenario(`{"soil_temperature":10,` +
		`"soil_layers":[{"conductivity":1.5,"thickness":10}],` +
		`"pipes":[{"id":1,"role":"heat_source","z":1.2,"temperature":90,` +
		`"outer_diameter":0.2,"wall_thickness":0.01,` +
		`"insulation_thickness":0.03,` +
		`"pipe_material_id":1,"insulation_material_id":10}]}`)
	require.Equal(t, "scenarioSet", reply.Type)

	p := h.scenario.Pipes[0]
	assert.Equal(t, 50.0, p.ConductivityPipe)
	assert.Equal(t, 0.027, p.ConductivityInsulation)
}

func TestResolveMaterialsKeepsExplicitConductivity(t *testing.T) {
	p := model.Pipe{PipeMaterialID: 1, ConductivityPipe: 17}
	resolveMaterials(&p)
	assert.Equal(t, 17.0, p.ConductivityPipe)
}

func TestHubStopsWhenDone(t *testing.T) {
	h := NewHub()
	requestStopped := make(chan struct{})
	responseStopped := make(chan struct{})
	go func() {
		h.handleRequest()
		close(requestStopped)
	}()
	go func() {
		h.handleResponse()
		close(responseStopped)
	}()

	close(h.done)
	for _, stopped := range []chan struct{}{requestStopped, responseStopped} {
		select {
		case <-stopped:
		case <-time.After(time.Second):
			t.Fatal("hub goroutine kept running after done")
		}
	}
}

func TestMaterials(t *testing.T) {
	h := NewHub()
	reply := h.materials()
	require.Equal(t, "materialsData", reply.Type)

	var presets []material.Material
	require.NoError(t, json.Unmarshal([]byte(reply.Content), &presets))
	assert.NotEmpty(t, presets)
}

func TestHeatmapRequiresSolve(t *testing.T) {
	h := NewHub()
	require.Equal(t, "scenarioSet", h.setScenario(testScenario(t)).Type)
	assert.Equal(t, "error", h.heatmap().Type)
}

func TestHeatmap(t *testing.T) {
	h := solvedHub(t)

	reply := h.heatmap()
	require.Equal(t, "heatmapData", reply.Type)

	var heatmap HeatmapReply
	require.NoError(t, json.Unmarshal([]byte(reply.Content), &heatmap))
	require.Len(t, heatmap.Temperatures, 5)
	for _, row := range heatmap.Temperatures {
		assert.Len(t, row, 5)
	}
	assert.NotEmpty(t, heatmap.Flux)
}

func TestIsosurfacesRequireSolve(t *testing.T) {
	h := NewHub()
	require.Equal(t, "scenarioSet", h.setScenario(testScenario(t)).Type)

	replies := h.isosurfaces()
	require.Len(t, replies, 1)
	assert.Equal(t, "error", replies[0].Type)
}

func TestIsosurfaces(t *testing.T) {
	h := solvedHub(t)

	replies := h.isosurfaces()
	require.Len(t, replies, 2)

	var reply IsosurfaceReply
	require.Equal(t, "isosurfaceData", replies[0].Type)
	require.NoError(t, json.Unmarshal([]byte(replies[0].Content), &reply))
	assert.Equal(t, 20.0, reply.Isovalue)
	assert.Equal(t, [3]float64{-2, -2, 0}, reply.Origin)
	assert.Equal(t, [3]float64{0.8, 0.8, 0.6}, reply.Spacing)
}
