package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"pokerengine/internal/analytics"
	"pokerengine/internal/config"
	"pokerengine/internal/host"
	"pokerengine/internal/interpreter"
	"pokerengine/internal/rulesfile"
	"pokerengine/internal/storage/postgres"
	"pokerengine/pkg/rng"
)

// handHistoryArchiver adapts postgres.HandHistoryStore's own record type to
// host.HandArchiver's, so internal/host never needs to import
// internal/storage/postgres directly.
type handHistoryArchiver struct {
	store *postgres.HandHistoryStore
}

func (a handHistoryArchiver) RecordHand(ctx context.Context, rec host.HandHistoryRecord) error {
	return a.store.RecordHand(ctx, postgres.HandHistoryRecord{
		HandID:      rec.HandID,
		TableID:     rec.TableID,
		GameType:    rec.GameType,
		NumPlayers:  rec.NumPlayers,
		TotalPot:    rec.TotalPot,
		SidePots:    rec.SidePots,
		WasShowdown: rec.WasShowdown,
		StackDeltas: rec.StackDeltas,
		PlayedAt:    rec.PlayedAt,
	})
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // allow all origins in development
	},
}

// Server manages the running tables and the rules files they're loaded
// from; it is the engine-host equivalent of the teacher's GameServer, with
// no fraud wiring.
type Server struct {
	cfg      config.ServerConfig
	tables   map[string]*host.Table
	rules    map[string]*rulesfile.GameRules
	rng      *rng.System
	sink     *analytics.Sink
	archiver host.HandArchiver
	mu       sync.RWMutex
}

func NewServer(cfg config.ServerConfig) (*Server, error) {
	rngSystem, err := rng.NewSystem(nil)
	if err != nil {
		return nil, fmt.Errorf("server: failed to initialize rng: %w", err)
	}

	rules, err := loadRulesDir(cfg.RulesDir)
	if err != nil {
		return nil, fmt.Errorf("server: failed to load rules: %w", err)
	}

	var sink analytics.Sink
	if cfg.AnalyticsEnabled {
		if cfg.ClickHouseDSN != "" {
			// DSN parsing into ClickHouseConfig is left to deployment
			// tooling; the host only needs a reachable *ClickHouseAnalytics.
			log.Printf("server: clickhouse analytics configured but DSN wiring is left to the deployment's config loader")
		}
		if len(cfg.KafkaBrokers) > 0 {
			kafka, err := analytics.NewKafkaPublisher(analytics.KafkaPublisherConfig{
				Brokers: cfg.KafkaBrokers,
				Topic:   "hand.completed",
			})
			if err != nil {
				log.Printf("server: kafka publisher unavailable: %v", err)
			} else {
				sink.Kafka = kafka
			}
		}
	}

	var archiver host.HandArchiver
	if cfg.PostgresDSN != "" {
		db, err := sql.Open("postgres", cfg.PostgresDSN)
		if err != nil {
			log.Printf("server: postgres hand history unavailable: %v", err)
		} else {
			store := postgres.NewHandHistoryStore(db)
			if err := store.CreateTable(context.Background()); err != nil {
				log.Printf("server: failed to create hand_history table: %v", err)
			} else {
				archiver = handHistoryArchiver{store: store}
			}
		}
	}

	return &Server{
		cfg:      cfg,
		tables:   make(map[string]*host.Table),
		rules:    rules,
		rng:      rngSystem,
		sink:     &sink,
		archiver: archiver,
	}, nil
}

// loadRulesDir parses every *.json file in dir into a rulesfile.GameRules,
// keyed by its Game field.
func loadRulesDir(dir string) (map[string]*rulesfile.GameRules, error) {
	out := make(map[string]*rulesfile.GameRules)
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return out, nil
	}
	if err != nil {
		return nil, err
	}
	for _, ent := range entries {
		if ent.IsDir() || filepath.Ext(ent.Name()) != ".json" {
			continue
		}
		rules, err := rulesfile.Load(filepath.Join(dir, ent.Name()))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ent.Name(), err)
		}
		out[rules.Game] = rules
	}
	return out, nil
}

// getOrCreateTable returns the running table for tableID, creating one for
// the given variant if it doesn't exist yet.
func (s *Server) getOrCreateTable(tableID, variant string) (*host.Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t, ok := s.tables[tableID]; ok {
		return t, nil
	}
	rules, ok := s.rules[variant]
	if !ok {
		return nil, fmt.Errorf("server: unknown rules variant %q", variant)
	}
	cfg := config.DefaultTableConfig(tableID, "")
	t, err := host.NewTable(cfg, rules, s.rng, s.sink)
	if err != nil {
		return nil, err
	}
	if s.archiver != nil {
		t.SetArchiver(s.archiver)
	}
	t.Start(context.Background())
	s.tables[tableID] = t
	return t, nil
}

func (s *Server) handleWebSocket(c *gin.Context) {
	tableID := c.Param("tableId")
	variant := c.Query("variant")
	if variant == "" {
		variant = "texas_holdem"
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	table, err := s.getOrCreateTable(tableID, variant)
	if err != nil {
		s.sendError(conn, err.Error())
		return
	}

	log.Printf("player connected to table: %s", tableID)

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("websocket error: %v", err)
			}
			break
		}

		var msg map[string]interface{}
		if err := json.Unmarshal(message, &msg); err != nil {
			log.Printf("failed to parse message: %v", err)
			continue
		}
		s.handleMessage(conn, table, msg)
	}
}

func (s *Server) handleMessage(conn *websocket.Conn, table *host.Table, msg map[string]interface{}) {
	switch msg["type"] {
	case "join":
		playerID, _ := msg["player_id"].(string)
		playerName, _ := msg["player_name"].(string)
		buyIn := 0
		if v, ok := msg["buy_in"].(float64); ok {
			buyIn = int(v)
		}
		if err := table.Join(playerID, playerName, buyIn); err != nil {
			s.sendError(conn, err.Error())
			return
		}
		s.sendMessage(conn, map[string]interface{}{
			"type":  "joined",
			"state": table.State(),
		})

	case "action":
		playerID, _ := msg["player_id"].(string)
		actionType, _ := msg["action"].(string)
		amount := 0
		if v, ok := msg["amount"].(float64); ok {
			amount = int(v)
		}
		cards := intSlice(msg["cards"])
		declaration := stringSlice(msg["declaration"])
		choiceValue, _ := msg["choice"].(string)

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		result, err := table.SubmitAction(ctx, playerID, interpreter.ActionType(actionType), amount, cards, declaration, choiceValue)
		cancel()
		if err != nil {
			s.sendError(conn, err.Error())
			return
		}
		if !result.Success {
			s.sendError(conn, result.Error.Error())
			return
		}
		s.sendMessage(conn, map[string]interface{}{
			"type":  "state",
			"state": table.State(),
		})

	case "leave":
		playerID, _ := msg["player_id"].(string)
		if err := table.Leave(playerID); err != nil {
			s.sendError(conn, err.Error())
		}
	}
}

func intSlice(v interface{}) []int {
	raw, ok := v.([]interface{})
	if !ok {
		return nil
	}
	out := make([]int, 0, len(raw))
	for _, x := range raw {
		if f, ok := x.(float64); ok {
			out = append(out, int(f))
		}
	}
	return out
}

func stringSlice(v interface{}) []string {
	raw, ok := v.([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, x := range raw {
		if s, ok := x.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func (s *Server) sendMessage(conn *websocket.Conn, data interface{}) {
	if err := conn.WriteJSON(data); err != nil {
		log.Printf("failed to send message: %v", err)
	}
}

func (s *Server) sendError(conn *websocket.Conn, message string) {
	s.sendMessage(conn, map[string]interface{}{
		"type":    "error",
		"message": message,
	})
}

func main() {
	cfg := config.ServerConfigFromEnv()

	router := gin.Default()
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	server, err := NewServer(cfg)
	if err != nil {
		log.Fatalf("failed to create server: %v", err)
	}

	router.GET("/ws/:tableId", server.handleWebSocket)

	router.GET("/api/tables/:tableId", func(c *gin.Context) {
		server.mu.RLock()
		table, exists := server.tables[c.Param("tableId")]
		server.mu.RUnlock()
		if !exists {
			c.JSON(404, gin.H{"error": "table not found"})
			return
		}
		c.JSON(200, table.State())
	})

	router.POST("/api/tables", func(c *gin.Context) {
		var req struct {
			TableID string `json:"tableId"`
			Variant string `json:"variant"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(400, gin.H{"error": "invalid request"})
			return
		}
		if req.Variant == "" {
			req.Variant = "texas_holdem"
		}
		if _, err := server.getOrCreateTable(req.TableID, req.Variant); err != nil {
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}
		c.JSON(201, gin.H{"tableId": req.TableID})
	})

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("shutting down server...")
		server.mu.RLock()
		for _, table := range server.tables {
			table.Stop()
		}
		server.mu.RUnlock()
		os.Exit(0)
	}()

	log.Printf("poker engine server starting on port %s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
