package main

import (
	"fmt"

	"github.com/earentir/gptlabel/backup"
	"github.com/earentir/gptlabel/device"
	"github.com/earentir/gptlabel/gpt"
	"github.com/earentir/gptlabel/tui"
)

func runInit(path string, nParts uint32) error {
	dev, err := device.Open(path)
	if err != nil {
		return err
	}
	defer dev.Close()

	info, err := dev.MediaInfo()
	if err != nil {
		return fmt.Errorf("gptctl: determine media size: %w", err)
	}

	l, err := gpt.Init(info.CapacityLBA, info.LBASize, nParts, gpt.DefaultUUIDSource)
	if err != nil {
		return err
	}

	if err := gpt.Write(dev, l, gpt.DefaultUUIDSource, nil, nil); err != nil {
		return err
	}

	fmt.Printf("initialised %s: %d usable LBAs, disk guid %s\n", path, l.LastUsableLBA-l.FirstUsableLBA+1, l.DiskGUID)
	return nil
}

func runRead(path string) error {
	dev, err := device.Open(path)
	if err != nil {
		return err
	}
	defer dev.Close()

	l, idx, err := gpt.Read(dev, nil)
	if err != nil {
		return err
	}

	fmt.Printf("disk guid: %s\n", l.DiskGUID)
	fmt.Printf("partition index reported by device: %d\n", idx)
	fmt.Printf("usable range: [%d, %d]\n", l.FirstUsableLBA, l.LastUsableLBA)
	if l.Flags&gpt.FlagPrimaryCorrupt != 0 {
		fmt.Println("warning: primary label was corrupt, read from backup")
	}
	for i, p := range l.Parts {
		if p.SizeLBA == 0 && p.TypeGUID.IsNull() {
			continue
		}
		fmt.Printf("  [%d] tag=0x%02x start=%d size=%d type=%s unique=%s\n",
			i, uint16(p.Tag), p.StartLBA, p.SizeLBA, p.TypeGUID, p.UniqueGUID)
	}
	return nil
}

func runReshape(path string) error {
	dev, err := device.Open(path)
	if err != nil {
		return err
	}
	defer dev.Close()

	l, _, err := gpt.Read(dev, nil)
	if err != nil {
		return err
	}

	info, err := dev.MediaInfo()
	if err != nil {
		return fmt.Errorf("gptctl: determine media size: %w", err)
	}

	changed, err := gpt.Reshape(l, info.CapacityLBA)
	if err != nil {
		return err
	}
	if !changed {
		fmt.Println("no capacity change, label left untouched")
		return nil
	}

	if err := gpt.Write(dev, l, gpt.DefaultUUIDSource, nil, nil); err != nil {
		return err
	}
	fmt.Println("label reshaped and rewritten")
	return nil
}

func runPMBR(path string) error {
	dev, err := device.Open(path)
	if err != nil {
		return err
	}
	defer dev.Close()

	l, _, err := gpt.Read(dev, nil)
	if err != nil {
		return err
	}

	if err := gpt.WritePMBR(dev, l, nil); err != nil {
		return err
	}
	fmt.Println("protective mbr rewritten")
	return nil
}

func runBackup(path, outPrefix, algo string) error {
	dev, err := device.Open(path)
	if err != nil {
		return err
	}
	defer dev.Close()

	l, _, err := gpt.Read(dev, nil)
	if err != nil {
		return err
	}

	archive, err := backup.Dump(dev, l, outPrefix, backup.Algorithm(algo))
	if err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", archive)
	return nil
}

func runRestore(path, archive, algo string) error {
	dev, err := device.Open(path)
	if err != nil {
		return err
	}
	defer dev.Close()

	if err := backup.Restore(dev, archive, backup.Algorithm(algo)); err != nil {
		return err
	}
	fmt.Println("restored raw label bytes, rewrite the backup area and pmbr with a full Write if needed")
	return nil
}

func runTUI(path string) error {
	dev, err := device.Open(path)
	if err != nil {
		return err
	}
	defer dev.Close()

	l, _, err := gpt.Read(dev, nil)
	if err != nil {
		return err
	}

	return tui.Run(path, l)
}
