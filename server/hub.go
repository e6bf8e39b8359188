package server

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"pipefield/calculator"
	"pipefield/isosurface"
	"pipefield/material"
	"pipefield/model"
)

// Hub routes the typed messages of one websocket client through the engine.
// Each connection gets its own hub; the engine itself is stateless, the hub
// only holds the last scenario and its solved snapshot.
type Hub struct {
	session uuid.UUID
	conn    *websocket.Conn

	// request
	msg chan model.Msg
	// response
	reply chan model.Msg
	// closed when the connection goes away, stops both pump goroutines
	done chan struct{}

	scenario *model.Scenario
	sources  []model.SourceResult
	eval     *calculator.Evaluator
}

func NewHub() *Hub {
	return &Hub{
		session: uuid.New(),
		msg:     make(chan model.Msg, 10),
		reply:   make(chan model.Msg, 10),
		done:    make(chan struct{}),
	}
}

// SolveReply is the payload of the "solved" message.
type SolveReply struct {
	Sources  []model.SourceResult   `json:"sources"`
	Affected []model.AffectedResult `json:"affected"`
}

// HeatmapReply is the payload of the "heatmapData" message.
type HeatmapReply struct {
	Temperatures [][]float64        `json:"temperatures"`
	Flux         []model.FluxVector `json:"flux"`
}

// IsosurfaceReply is the payload of one "isosurfaceData" message. Triangles
// are in lattice space; Spacing and Origin carry the lattice-to-world scale
// for the renderer.
type IsosurfaceReply struct {
	Isovalue  float64               `json:"isovalue"`
	Origin    [3]float64            `json:"origin"`
	Spacing   [3]float64            `json:"spacing"`
	Triangles []isosurface.Triangle `json:"triangles"`
}

func (h *Hub) handleResponse() {
	for {
		select {
		case reply := <-h.reply:
			err := h.conn.WriteJSON(&reply)
			if err != nil {
				log.Println("err: ", err)
			}
		case <-h.done:
			return
		default:
			time.Sleep(10 * time.Millisecond)
		}
	}
}

func (h *Hub) handleRequest() {
	for {
		select {
		case msg := <-h.msg:
			log.WithFields(log.Fields{
				"session": h.session,
				"type":    msg.Type,
			}).Info("request")
			switch msg.Type {
			case "scenario":
				h.reply <- h.setScenario(msg.Content)
			case "solve":
				h.reply <- h.solve()
			case "materials":
				h.reply <- h.materials()
			case "heatmap":
				h.reply <- h.heatmap()
			case "isosurface":
				for _, reply := range h.isosurfaces() {
					h.reply <- reply
				}
			default:
				log.Println("no such type: ", msg.Type)
			}
		case <-h.done:
			return
		default:
			time.Sleep(10 * time.Millisecond)
		}
	}
}

func (h *Hub) setScenario(content string) model.Msg {
	var scenario model.Scenario
	if err := json.Unmarshal([]byte(content), &scenario); err != nil {
		return errMsg(fmt.Errorf("bad scenario: %w", err))
	}
	for i := range scenario.Pipes {
		resolveMaterials(&scenario.Pipes[i])
	}
	if err := calculator.ValidateScenario(scenario.Pipes, scenario.SoilLayers); err != nil {
		return errMsg(err)
	}
	h.scenario = &scenario
	h.sources = nil
	h.eval = nil
	return model.Msg{Type: "scenarioSet", Content: "scenario is set"}
}

func (h *Hub) solve() model.Msg {
	if h.scenario == nil {
		return errMsg(fmt.Errorf("no scenario set"))
	}
	s := h.scenario

	sources, err := calculator.SolveSources(s.Pipes, s.SoilLayers, s.SoilTemperature)
	if err != nil {
		return errMsg(err)
	}
	h.sources = sources
	h.eval = calculator.NewEvaluator(s.Pipes, sources, s.SoilLayers, s.SoilTemperature)

	data, err := json.Marshal(SolveReply{
		Sources:  sources,
		Affected: h.eval.BuildAffected(s.Pipes),
	})
	if err != nil {
		return errMsg(err)
	}
	return model.Msg{Type: "solved", Content: string(data)}
}

// resolveMaterials fills in conductivities from catalog preset ids. An
// explicitly given conductivity wins over the preset.
func resolveMaterials(p *model.Pipe) {
	if p.PipeMaterialID > 0 && p.ConductivityPipe == 0 {
		p.ConductivityPipe = material.Conductivity(p.PipeMaterialID)
	}
	if p.InsulationMaterialID > 0 && p.ConductivityInsulation == 0 {
		p.ConductivityInsulation = material.Conductivity(p.InsulationMaterialID)
	}
	if p.BeddingMaterialID > 0 && p.ConductivityBedding == 0 {
		p.ConductivityBedding = material.Conductivity(p.BeddingMaterialID)
	}
}

// materials serves the built-in conductivity presets the front end seeds its
// pickers from.
func (h *Hub) materials() model.Msg {
	data, err := json.Marshal(material.All())
	if err != nil {
		return errMsg(err)
	}
	return model.Msg{Type: "materialsData", Content: string(data)}
}

func (h *Hub) heatmap() model.Msg {
	if h.eval == nil {
		return errMsg(fmt.Errorf("scenario not solved"))
	}
	data, err := json.Marshal(HeatmapReply{
		Temperatures: h.eval.BuildHeatmap(h.scenario.Heatmap),
		Flux:         h.eval.FluxVectors(h.scenario.Heatmap),
	})
	if err != nil {
		return errMsg(err)
	}
	return model.Msg{Type: "heatmapData", Content: string(data)}
}

// isosurfaces samples the lattice once and extracts every requested level.
// A failed level produces its own error message and the rest still extract.
func (h *Hub) isosurfaces() []model.Msg {
	if h.eval == nil {
		return []model.Msg{errMsg(fmt.Errorf("scenario not solved"))}
	}

	start := time.Now()
	field := h.eval.SampleGrid(h.scenario.Grid)
	log.WithFields(log.Fields{
		"session": h.session,
		"nodes":   field.NX * field.NY * field.NZ,
		"cost":    time.Since(start),
	}).Info("grid sampled")

	spacing := field.Spacing()
	var replies []model.Msg
	for _, iso := range h.scenario.Isovalues {
		triangles, err := isosurface.ExtractSafe(field, iso)
		if err != nil {
			log.Println("err: ", err)
			replies = append(replies, model.Msg{Type: "isosurfaceError", Content: err.Error()})
			continue
		}
		data, err := json.Marshal(IsosurfaceReply{
			Isovalue:  iso,
			Origin:    [3]float64{field.Bounds.Min.X, field.Bounds.Min.Y, field.Bounds.Min.Z},
			Spacing:   [3]float64{spacing.X, spacing.Y, spacing.Z},
			Triangles: triangles,
		})
		if err != nil {
			replies = append(replies, model.Msg{Type: "isosurfaceError", Content: err.Error()})
			continue
		}
		replies = append(replies, model.Msg{Type: "isosurfaceData", Content: string(data)})
	}
	return replies
}

func errMsg(err error) model.Msg {
	return model.Msg{Type: "error", Content: err.Error()}
}
