// Package scan implements the address generator, reachability prefilter,
// and bounded concurrent pipeline that turns random IPv4 addresses into
// persisted server records.
package scan

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"net"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/go-mclib/scanner/checker"
	"github.com/go-mclib/scanner/console"
	"github.com/go-mclib/scanner/mcmetrics"
	"github.com/go-mclib/scanner/store"
)

// Port is the canonical Minecraft Java Edition server port.
const Port uint16 = 25565

// PrefilterTimeout bounds the reachability TCP-connect attempt.
const PrefilterTimeout = 3 * time.Second

// QueueCapacity is the bounded channel's capacity between generators
// and the dispatcher.
const QueueCapacity = 256

// RandomIPv4 returns a uniformly random IPv4 address across all four
// octets, with no reserved-range filtering.
func RandomIPv4() net.IP {
	var b [4]byte
	// crypto/rand never fails in practice on supported platforms; if it
	// does, the address falls back to the low 32 bits of the current
	// time in nanoseconds.
	if _, err := rand.Read(b[:]); err != nil {
		binary.BigEndian.PutUint32(b[:], uint32(time.Now().UnixNano()))
	}
	return net.IPv4(b[0], b[1], b[2], b[3])
}

// CheckPortOpen attempts a TCP connection to ip:port, bounded by
// PrefilterTimeout. Any failure (refused, timeout, unreachable) reports
// closed; there are no retries.
func CheckPortOpen(ctx context.Context, ip net.IP, port uint16) bool {
	ctx, cancel := context.WithTimeout(ctx, PrefilterTimeout)
	defer cancel()

	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "tcp", net.JoinHostPort(ip.String(), strconv.Itoa(int(port))))
	if err != nil {
		return false
	}
	conn.Close()
	return true
}

// Pipeline wires N generator goroutines into a bounded queue consumed
// by a single dispatcher that launches detached, semaphore-bounded
// per-address workers.
type Pipeline struct {
	Threads     int
	MaxInflight int
	Store       store.Store
	Log         *zap.SugaredLogger
}

// Run starts the pipeline and blocks until ctx is cancelled. Generators
// and the dispatcher all exit once ctx is done; the queue channel is
// never closed.
func (p *Pipeline) Run(ctx context.Context) {
	queue := make(chan net.TCPAddr, QueueCapacity)

	for i := 0; i < p.Threads; i++ {
		go p.generate(ctx, queue)
	}

	p.dispatch(ctx, queue)
}

// generate is one producer task: forever produce a random address,
// prefilter it, and hand reachable ones to the queue.
func (p *Pipeline) generate(ctx context.Context, queue chan<- net.TCPAddr) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		ip := RandomIPv4()
		mcmetrics.Generated.Inc()

		if !CheckPortOpen(ctx, ip, Port) {
			continue
		}
		mcmetrics.Reachable.Inc()

		select {
		case queue <- net.TCPAddr{IP: ip, Port: int(Port)}:
		case <-ctx.Done():
			return
		}
	}
}

// dispatch is the single consumer: for each queued address, acquire a
// semaphore slot and launch a detached worker. If no slot is free, the
// address is dropped.
func (p *Pipeline) dispatch(ctx context.Context, queue <-chan net.TCPAddr) {
	sem := make(chan struct{}, p.MaxInflight)

	for {
		select {
		case <-ctx.Done():
			return
		case addr, ok := <-queue:
			if !ok {
				return
			}
			mcmetrics.QueueDepth.Set(float64(len(queue)))

			select {
			case sem <- struct{}{}:
				go func(addr net.TCPAddr) {
					defer func() { <-sem }()
					p.process(ctx, addr)
				}(addr)
			default:
				p.Log.Debugw("scan: dropped address, in-flight limit reached", "addr", addr.String())
			}
		}
	}
}

// process is one per-address workflow: status, then license probe, then
// persist.
func (p *Pipeline) process(ctx context.Context, addr net.TCPAddr) {
	ip := addr.IP.String()
	port := strconv.Itoa(addr.Port)

	status, err := checker.Status(ctx, ip, uint16(addr.Port))
	if err != nil {
		p.Log.Debugw("scan: status probe failed", "addr", addr.String(), "error", err)
		return
	}

	license := checker.Classify(ctx, ip, uint16(addr.Port), status)
	mcmetrics.Probed.WithLabelValues(mcmetrics.LicenseLabel(license)).Inc()

	now := time.Now()
	rec := store.ServerRecord{
		IP:        ip,
		Port:      port,
		License:   license,
		Status:    status,
		FirstSeen: now,
		LastSeen:  now,
	}
	if err := p.Store.Add(ctx, rec); err != nil {
		p.Log.Warnw("scan: persist failed", "addr", addr.String(), "error", err)
		return
	}

	console.PrintServer(rec)
	p.Log.Debugw("scan: discovered server", "addr", addr.String(), "license", license, "motd", fmt.Sprintf("%q", status.Description))
}
