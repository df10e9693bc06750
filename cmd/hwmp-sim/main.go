package main

import (
    "context"
    "os"
    "os/signal"
    "syscall"
)

func main() {
    ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
    defer stop()

    if err := newRootCmd(os.Stdout).ExecuteContext(ctx); err != nil {
        _, _ = os.Stderr.WriteString("hwmp-sim: " + err.Error() + "\n")
        stop()
        os.Exit(1)
    }
}
