package catalog

// Default returns the built-in catalog of downloadable products.
//
// The Windows entries mirror what the vendor's consumer download page
// currently offers (it only ever serves the latest build per version).
// The UEFI Shell entries map to tagged GitHub release assets and are
// resolved without touching the vendor API at all.
func Default() *Catalog {
	return New([]VersionData{
		{
			Name:     "Windows 11",
			PageType: "windows11",
			Releases: []ReleaseData{
				{
					Name: "24H2 (Build 26100.1742 - 2024.10)",
					Editions: []EditionData{
						{Name: "Windows 11 Home/Pro/Edu", IDs: []int{3113, 3131}},
						{Name: "Windows 11 Home China", IDs: []int{3115, 3132}},
						{Name: "Windows 11 Pro China", IDs: []int{3114, 3133}},
					},
				},
			},
		},
		{
			Name:     "Windows 10",
			PageType: "Windows10ISO",
			Releases: []ReleaseData{
				{
					Name: "22H2 v1 (Build 19045.2965 - 2023.05)",
					Editions: []EditionData{
						{Name: "Windows 10 Home/Pro/Edu", IDs: []int{2618}},
						{Name: "Windows 10 Home China", IDs: []int{2378}},
					},
				},
			},
		},
		{
			Name:     "UEFI Shell 2.2",
			PageType: "UEFI_SHELL 2.2",
			Releases: []ReleaseData{
				shellRelease("25H1 (edk2-stable202505)"),
				shellRelease("24H2 (edk2-stable202411)"),
				shellRelease("24H1 (edk2-stable202405)"),
				shellRelease("23H2 (edk2-stable202311)"),
				shellRelease("23H1 (edk2-stable202305)"),
				shellRelease("22H2 (edk2-stable202211)"),
				shellRelease("22H1 (edk2-stable202205)"),
				shellRelease("21H2 (edk2-stable202108)"),
				shellRelease("21H1 (edk2-stable202105)"),
				shellRelease("20H2 (edk2-stable202011)"),
			},
		},
		{
			Name:     "UEFI Shell 2.0",
			PageType: "UEFI_SHELL 2.0",
			Releases: []ReleaseData{
				{
					Name: "4.632 [20100426]",
					Editions: []EditionData{
						{Name: "Release", IDs: []int{0}},
					},
				},
			},
		},
	})
}

// shellRelease builds the Release/Debug edition pair every UEFI Shell 2.2
// release ships with. The IDs are placeholders; shell products never
// reach the SKU API.
func shellRelease(name string) ReleaseData {
	return ReleaseData{
		Name: name,
		Editions: []EditionData{
			{Name: "Release", IDs: []int{0}},
			{Name: "Debug", IDs: []int{1}},
		},
	}
}
