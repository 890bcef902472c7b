package main

//go-build: CGO_ENABLED=0

import (
	"context"
	"flag"
	"net"
	"time"

	"github.com/golang/glog"
	"github.com/tarm/serial"

	fx "github.com/robotalks/servo.go/pkg/framework"
	"github.com/robotalks/servo.go/pkg/portio"
	"github.com/robotalks/servo.go/pkg/portio/remote"
	"github.com/robotalks/servo.go/pkg/servo"
)

var (
	listenAddr = ":6290"
	serialDev  string
	serialBaud = remote.DefaultBaud
)

func init() {
	servo.SetupFlags()
	flag.StringVar(&listenAddr, "listen", listenAddr, "TCP listen address, empty to disable")
	flag.StringVar(&serialDev, "serial", serialDev, "Serial device to serve on, replaces -listen")
	flag.IntVar(&serialBaud, "baud", serialBaud, "Serial baud rate")
}

// serveTCP serves one host connection at a time.
func serveTCP(srv *remote.Server) fx.Runnable {
	return fx.RunnableFunc(func(ctx context.Context) error {
		ln, err := net.Listen("tcp", listenAddr)
		if err != nil {
			return err
		}
		glog.Infof("servobridge: listening on %s", ln.Addr())
		return fx.RunWithContextCloser(ctx, ln, func() error {
			for {
				conn, err := ln.Accept()
				if err != nil {
					return err
				}
				glog.Infof("servobridge: host %s attached", conn.RemoteAddr())
				err = fx.RunWithContextCloser(ctx, conn, func() error {
					return srv.Serve(ctx, conn)
				})
				glog.Infof("servobridge: host %s detached: %v", conn.RemoteAddr(), err)
			}
		})
	})
}

func serveSerial(bus portio.Backend) fx.Runnable {
	return fx.RunnableFunc(func(ctx context.Context) error {
		port, err := serial.OpenPort(&serial.Config{
			Name:        serialDev,
			Baud:        serialBaud,
			ReadTimeout: 100 * time.Millisecond,
		})
		if err != nil {
			return err
		}
		glog.Infof("servobridge: serving on %s at %d baud", serialDev, serialBaud)
		srv := &remote.Server{Bus: bus, IdleEOF: true}
		return fx.RunWithContextCloser(ctx, port, func() error {
			return srv.Serve(ctx, port)
		})
	})
}

func main() {
	flag.Parse()
	defer glog.Flush()

	conf := servo.NewConfig()
	boardConf, err := conf.LoadBoardConfig()
	if err != nil {
		glog.Exit(err)
	}
	bus, err := conf.OpenBackend(uint16(boardConf.BaseAddress))
	if err != nil {
		glog.Exit(err)
	}

	// A board serves a single host.
	var serve fx.Runnable
	switch {
	case serialDev != "":
		serve = serveSerial(bus)
	case listenAddr != "":
		serve = serveTCP(&remote.Server{Bus: bus})
	default:
		glog.Exit("nothing to serve, -listen or -serial required")
	}
	err = fx.NewRunner().
		HandleSignals().
		OnShutdown("bus", func() error { return portio.Close(bus) }).
		Go(serve).
		Wait()
	if err != nil {
		glog.Error(err)
	}
}
