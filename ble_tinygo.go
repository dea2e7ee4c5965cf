//go:build tinygo

package hub

import "tinygo.org/x/bluetooth"

// bleServiceUUID/bleCharUUID are ServiceUUID/CharacteristicUUID (uuid.go)
// converted to tinygo.org/x/bluetooth's own UUID type.
var (
	bleServiceUUID = bluetooth.NewUUID([16]byte(ServiceUUID))
	bleCharUUID    = bluetooth.NewUUID([16]byte(CharacteristicUUID))
)

// PeripheralAdapter wires a Framer into tinygo.org/x/bluetooth's GATT
// peripheral API: the thin seam between the external GATT server and this
// module's framing state machine.
//
// The protocol pulls chunked responses via repeated attribute reads, but
// tinygo.org/x/bluetooth serves characteristic reads from a single stored
// value and exposes no per-read callback, so this adapter cannot observe
// when a central has consumed a chunk. The first chunk of a response is
// staged as soon as the request completes, which fully covers one-chunk
// responses; for longer responses something that can see the central's
// reads (an ATT-level hook, or a protocol change notifying per chunk)
// must call AdvanceRead after each read to stage the next chunk. Until
// then multi-chunk readout over this adapter is a known gap.
type PeripheralAdapter struct {
	adapter *bluetooth.Adapter
	framer  *Framer
	handle  bluetooth.Characteristic
}

// NewPeripheralAdapter wires framer onto adapter's default Bluetooth radio.
func NewPeripheralAdapter(adapter *bluetooth.Adapter, framer *Framer) *PeripheralAdapter {
	return &PeripheralAdapter{adapter: adapter, framer: framer}
}

// Start enables the adapter, registers the vendor service, and begins
// advertising the 128-bit service UUID. No advertising interval is set, so
// the library's default interval applies.
func (p *PeripheralAdapter) Start(deviceName string) error {
	if err := p.adapter.Enable(); err != nil {
		return err
	}

	if err := p.adapter.AddService(&bluetooth.Service{
		UUID: bleServiceUUID,
		Characteristics: []bluetooth.CharacteristicConfig{
			{
				UUID:   bleCharUUID,
				Flags:  bluetooth.CharacteristicReadPermission | bluetooth.CharacteristicWritePermission,
				Handle: &p.handle,
				WriteEvent: func(client bluetooth.Connection, offset int, value []byte) {
					p.onWrite(offset, value)
				},
			},
		},
	}); err != nil {
		return err
	}

	adv := p.adapter.DefaultAdvertisement()
	if err := adv.Configure(bluetooth.AdvertisementOptions{
		LocalName:    deviceName,
		ServiceUUIDs: []bluetooth.UUID{bleServiceUUID},
	}); err != nil {
		return err
	}
	return adv.Start()
}

func (p *PeripheralAdapter) onWrite(offset int, value []byte) {
	if _, err := p.framer.WriteChunk(offset, value); err != nil {
		globalLogger.Warn("BLE write rejected: " + err.Error())
		return
	}
	if value[0]&chunkEnd != 0 {
		p.AdvanceRead()
	}
}

// AdvanceRead computes the next response chunk and pushes it as the
// characteristic's current value so the next central read returns it.
// Called once automatically when a request completes (staging the first
// chunk); callers that can observe central reads call it once per read to
// page through a multi-chunk response.
func (p *PeripheralAdapter) AdvanceRead() {
	chunk, err := p.framer.ReadChunk(0, 1+chunkSize)
	if err != nil {
		return
	}
	if _, err := p.handle.Write(chunk); err != nil {
		globalLogger.Warn("BLE characteristic update failed: " + err.Error())
	}
}
