// ABOUTME: Serial audio link package
// ABOUTME: Cycle-exact frame clock, receiver and transmitter machines
// Package i2s models the serial stereo PCM link between the codec and
// the processing path as cycle-exact state machines.
//
// All three machines advance once per reference tick and only look at
// the level a shared line held on the previous tick; there is no wait
// primitive anywhere. The shared convention is:
//
//   - bit clock at reference/8, 50% duty; rising edge samples,
//     falling edge drives
//   - word select flips every 16 bit periods, on a rising edge;
//     low is Left, high is Right
//   - 16 bits per channel word, MSB first, with a one bit-period
//     lead-in after each word-select transition
//
// Example loopback:
//
//	clk := i2s.NewFrameClock()
//	tx := i2s.NewTransmitter(source)
//	rx := i2s.NewReceiver()
//	var bc, ws, line bool
//	for {
//	    frame, ok := rx.Tick(bc, ws, line)
//	    line, _ = tx.Tick(bc, ws)
//	    bc, ws = clk.Tick()
//	    if ok {
//	        // consume frame
//	    }
//	}
package i2s
