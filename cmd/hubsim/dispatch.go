package main

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"

	"github.com/kildom/dongle-hub"
	"github.com/spf13/cobra"
)

var dispatchCmd = &cobra.Command{
	Use:   "dispatch",
	Short: "Send one GET_UPTIME/READ/WRITE/KEEP command straight to a Dispatcher",
	Long: `dispatch builds a fresh Config/State pair, wires it into a Dispatcher exactly
as the firmware's command path does, and prints the raw response bytes for a
single request — useful for checking the wire encoding and the bounds-check
behavior without a BLE central attached.`,
}

var dispatchTag uint8

func init() {
	dispatchCmd.PersistentFlags().Uint8Var(&dispatchTag, "tag", 0, "memory region tag: 0=Config, 1=State")
	dispatchCmd.AddCommand(uptimeCmd, readCmd, writeCmd, keepCmd)
}

func newDispatcher() *hub.Dispatcher {
	return hub.NewDispatcher(&hub.Config{}, &hub.State{}, nil, func() uint32 { return 42 })
}

func buildRequest(cmd uint8, tag uint8, body []byte) []byte {
	req := make([]byte, 4, 4+len(body))
	req[0] = cmd
	req[1] = tag
	binary.LittleEndian.PutUint16(req[2:4], 1)
	return append(req, body...)
}

func printResponse(resp []byte) {
	fmt.Printf("status=%d id=%d payload=%s\n", resp[1], binary.LittleEndian.Uint16(resp[2:4]), hex.EncodeToString(resp[4:]))
}

var uptimeCmd = &cobra.Command{
	Use:   "get-uptime",
	Short: "Send GET_UPTIME",
	RunE: func(cmd *cobra.Command, args []string) error {
		d := newDispatcher()
		printResponse(d.HandleCommand(buildRequest(1, dispatchTag, nil)))
		return nil
	},
}

var (
	readOffset int
	readSize   int
)

var readCmd = &cobra.Command{
	Use:   "read",
	Short: "Send READ against the chosen region",
	RunE: func(cmd *cobra.Command, args []string) error {
		body := make([]byte, 4)
		binary.LittleEndian.PutUint16(body[0:2], uint16(readOffset))
		binary.LittleEndian.PutUint16(body[2:4], uint16(readSize))
		d := newDispatcher()
		printResponse(d.HandleCommand(buildRequest(2, dispatchTag, body)))
		return nil
	},
}

var (
	writeOffset int
	writeHex    string
)

var writeCmd = &cobra.Command{
	Use:   "write",
	Short: "Send WRITE against the chosen region",
	RunE: func(cmd *cobra.Command, args []string) error {
		payload, err := hex.DecodeString(writeHex)
		if err != nil {
			return fmt.Errorf("--data must be hex: %w", err)
		}
		body := make([]byte, 2, 2+len(payload))
		binary.LittleEndian.PutUint16(body[0:2], uint16(writeOffset))
		body = append(body, payload...)
		d := newDispatcher()
		printResponse(d.HandleCommand(buildRequest(3, dispatchTag, body)))
		return nil
	},
}

var keepCmd = &cobra.Command{
	Use:   "keep",
	Short: "Send KEEP",
	RunE: func(cmd *cobra.Command, args []string) error {
		d := newDispatcher()
		printResponse(d.HandleCommand(buildRequest(4, dispatchTag, nil)))
		return nil
	},
}

func init() {
	readCmd.Flags().IntVar(&readOffset, "offset", 0, "byte offset into the region")
	readCmd.Flags().IntVar(&readSize, "size", 16, "number of bytes to read")
	writeCmd.Flags().IntVar(&writeOffset, "offset", 0, "byte offset into the region")
	writeCmd.Flags().StringVar(&writeHex, "data", "", "hex-encoded bytes to write")
}
