package main

import (
    "context"
    "errors"
    "fmt"
    "io"
    "net"
    "net/http"
    "strings"
    "time"

    "github.com/prometheus/client_golang/prometheus"
    "github.com/prometheus/client_golang/prometheus/promhttp"
    "go.uber.org/zap"

    "hwmesh/pkg/config"
    "hwmesh/pkg/dump"
    "hwmesh/pkg/hwmp"
    "hwmesh/pkg/metrics"
    "hwmesh/pkg/observability"
    "hwmesh/pkg/scenario"
    "hwmesh/pkg/simclock"
)

// session is a loaded config plus a table ready to be driven.
type session struct {
    cfg    *config.Config
    logger *zap.Logger
    table  *hwmp.Table
    runner *scenario.Runner
    sc     *scenario.Scenario
}

func openSession(opts Options) (*session, error) {
    cfg, err := config.Load(opts.ConfigPath)
    if err != nil {
        return nil, fmt.Errorf("load config: %w", err)
    }
    logger, err := observability.SetupLogger(cfg.Log)
    if err != nil {
        return nil, fmt.Errorf("setup logger: %w", err)
    }

    path := cfg.Sim.Scenario
    if opts.ScenarioPath != "" {
        path = opts.ScenarioPath
    }
    if path == "" {
        _ = logger.Sync()
        return nil, errors.New("no scenario: pass --scenario or set sim.scenario")
    }
    sc, err := scenario.Load(path)
    if err != nil {
        _ = logger.Sync()
        return nil, err
    }

    zap.L().Info("hwmp-sim started", zap.String("app", cfg.AppName), zap.String("node", cfg.Node.Address))
    zap.L().Debug("effective configuration", zap.Any("config", cfg))

    clk := simclock.NewVirtual(time.Time{})
    tb := hwmp.New(hwmp.Options{Clock: clk, Degree: cfg.Table.BTreeDegree})
    return &session{
        cfg:    cfg,
        logger: logger,
        table:  tb,
        runner: scenario.NewRunner(tb, clk, cfg.Table),
        sc:     sc,
    }, nil
}

func (s *session) close() { _ = s.logger.Sync() }

// runReplay replays the scenario and writes a plain-text report.
func runReplay(ctx context.Context, opts Options, out io.Writer) error {
    s, err := openSession(opts)
    if err != nil {
        return err
    }
    defer s.close()

    if opts.Serve && !s.cfg.Metrics.Enable {
        return errors.New("--serve needs metrics.enable")
    }
    var srv *http.Server
    if s.cfg.Metrics.Enable {
        if srv, err = s.startMetrics(); err != nil {
            return err
        }
        defer shutdown(srv)
    }

    res, err := s.runner.Run(ctx, s.sc)
    if err != nil {
        return err
    }
    writeReport(out, res, s.table)

    if opts.Serve {
        zap.L().Info("replay done; serving metrics until interrupted", zap.String("listen", s.cfg.Metrics.Listen))
        <-ctx.Done()
    }
    return nil
}

// runDump replays the scenario and writes the table snapshot.
func runDump(ctx context.Context, opts Options, out io.Writer) error {
    s, err := openSession(opts)
    if err != nil {
        return err
    }
    defer s.close()

    format := s.cfg.Sim.DumpFormat
    if opts.Format != "" {
        format = opts.Format
    }
    codecs, err := dump.Default()
    if err != nil {
        return err
    }
    codec, err := codecs.Get(format)
    if err != nil {
        return err
    }

    if _, err := s.runner.Run(ctx, s.sc); err != nil {
        return err
    }
    b, err := codec.Encode(s.table.Snapshot())
    if err != nil {
        return fmt.Errorf("encode %s: %w", codec.Format(), err)
    }
    _, err = out.Write(b)
    return err
}

func (s *session) startMetrics() (*http.Server, error) {
    reg := prometheus.NewRegistry()
    if _, err := metrics.Register(reg, s.cfg.Metrics.Namespace, s.cfg.Node.Address, s.table); err != nil {
        return nil, err
    }
    ln, err := net.Listen("tcp", s.cfg.Metrics.Listen)
    if err != nil {
        return nil, fmt.Errorf("metrics listen: %w", err)
    }
    mux := http.NewServeMux()
    mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
    srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
    go func() {
        if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
            zap.L().Error("metrics server stopped", zap.Error(err))
        }
    }()
    zap.L().Info("metrics endpoint up", zap.String("addr", ln.Addr().String()))
    return srv, nil
}

func shutdown(srv *http.Server) {
    ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
    defer cancel()
    _ = srv.Shutdown(ctx)
}

func writeReport(w io.Writer, res scenario.Result, tb *hwmp.Table) {
    for _, f := range res.Forwards {
        fmt.Fprintf(w, "forward t=%s dst=%s via=%s iface=%d source=%s\n",
            f.At, f.Dst, f.NextHop, f.Iface, f.Source)
    }
    for _, e := range res.RouteErrors {
        dsts := make([]string, 0, len(e.Destinations))
        for _, d := range e.Destinations {
            dsts = append(dsts, fmt.Sprintf("%s#%d", d.Destination, d.SeqNum))
        }
        rcv := make([]string, 0, len(e.Receivers))
        for _, p := range e.Receivers {
            rcv = append(rcv, fmt.Sprintf("%s@%d", p.Address, p.Interface))
        }
        fmt.Fprintf(w, "perr t=%s peer=%s unreachable=[%s] receivers=[%s]\n",
            e.At, e.Peer, strings.Join(dsts, " "), strings.Join(rcv, " "))
    }
    st := tb.Stats()
    root := "none"
    if r, ok := tb.Root(); ok {
        root = r.String()
    }
    fmt.Fprintf(w, "table reactive=%d root=%s lookups=%d hits=%d expired=%d\n",
        st.ReactiveRoutes, root, st.Lookups, st.Hits, st.Expired)
}
