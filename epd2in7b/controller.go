// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package epd2in7b

import "bytes"

type controller interface {
	sendCommand(byte)
	sendData([]byte)
	waitUntilIdle()
}

// initDisplay powers the panel up and programs it for tri-color refreshes
// using the waveform stored in OTP.
func initDisplay(ctrl controller) {
	ctrl.sendCommand(powerOn)
	ctrl.waitUntilIdle()

	ctrl.sendCommand(panelSetting)
	ctrl.sendData([]byte{panelSettingOTP})

	ctrl.sendCommand(pllControl)
	ctrl.sendData([]byte{0x3A}) // 100Hz

	ctrl.sendCommand(powerSetting)
	ctrl.sendData([]byte{0x03, 0x00, 0x2B, 0x2B, 0x09})

	ctrl.sendCommand(boosterSoftStart)
	ctrl.sendData([]byte{0x07, 0x07, 0x17})

	// Undocumented register pairs used in vendor example code.
	for _, opt := range [][2]byte{
		{0x60, 0xA5},
		{0x89, 0xA5},
		{0x90, 0x00},
		{0x93, 0x2A},
		{0x73, 0x41},
	} {
		ctrl.sendCommand(powerOptimization)
		ctrl.sendData(opt[:])
	}

	ctrl.sendCommand(vcmDCSetting)
	ctrl.sendData([]byte{0x12})

	ctrl.sendCommand(vcomDataInterval)
	ctrl.sendData([]byte{0x87})

	ctrl.sendCommand(partialDisplayRefresh)
	ctrl.sendData([]byte{0x00})
}

// writePlanes uploads both RAMs and refreshes the panel.
func writePlanes(ctrl controller, black, red []byte) {
	ctrl.sendCommand(dataStartTransmission1)
	ctrl.sendData(black)
	ctrl.sendCommand(dataStop)

	ctrl.sendCommand(dataStartTransmission2)
	ctrl.sendData(red)
	ctrl.sendCommand(dataStop)

	ctrl.sendCommand(displayRefresh)
	ctrl.waitUntilIdle()
}

// clearDisplay sets every pixel to white.
func clearDisplay(ctrl controller, size int) {
	blank := bytes.Repeat([]byte{0x00}, size)
	writePlanes(ctrl, blank, blank)
}

// sleepDisplay floats the border, powers off and enters deep sleep. Only a
// hardware reset wakes the controller up again.
func sleepDisplay(ctrl controller) {
	ctrl.sendCommand(vcomDataInterval)
	ctrl.sendData([]byte{0xF7})

	ctrl.sendCommand(powerOff)
	ctrl.waitUntilIdle()

	ctrl.sendCommand(deepSleep)
	ctrl.sendData([]byte{deepSleepCheck})
}
