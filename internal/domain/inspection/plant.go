package inspection

// PlantPoints is the TVP plant inspection table. Order here is the row order
// of every area grid and must not be reshuffled once grids exist.
var PlantPoints = []CategorySpec{
	{Name: "MAC A 空壓機", Points: compressorPoints()},
	{Name: "MAC B 空壓機", Points: compressorPoints()},
	{Name: "PPU 系統", Points: []PointSpec{
		{Name: "PI8392 PPU 儀表入口壓", Range: Between(8.0, 11.0)},
	}},
	{Name: "冷箱 PURGE 氣源", Points: []PointSpec{
		{Name: "FI3237 PURGE 流量", Range: Between(70.0, 120.0)},
		{Name: "FI3291.1 熱交換器 PURGE 用量", Range: Between(5.0, 25.0)},
		{Name: "FI3291.2 熱交換器 PURGE 用量", Range: Between(5.0, 25.0)},
		{Name: "FI3292.1 COLD BOX PURGE 用量", Range: Between(5.0, 25.0)},
		{Name: "FI3292.2 COLD BOX PURGE 用量", Range: Between(5.0, 25.0)},
		{Name: "FI3292.3 COLD BOX PURGE 用量", Range: Between(5.0, 25.0)},
	}},
	{Name: "膨脹機 CEB", Points: []PointSpec{
		{Name: "TI3430 油溫", Range: Between(50.0, 65.0)},
		{Name: "LI3430 油液位"},
		{Name: "PI3431.1 除霧風扇抽風壓力", Range: Between(-2.0, 10.0)},
		{Name: "PI3431.2 除霧風扇抽風壓力", Range: Between(0.0, 3.0)},
		{Name: "TI3437.2 調溫後進 TFC 油溫", Range: Between(35.0, 50.0)},
		{Name: "PI3433.A oil pressure", Range: Between(8.5, 15.0)},
		{Name: "油濾網壓差 檢查油壓差視窗是否有突起"},
		{Name: "聯軸器 確認加熱器周圍是否有結冰"},
	}},
	{Name: "膨脹發電機 TG", Points: []PointSpec{
		{Name: "TI3490.1 油溫", Range: Between(40.0, 65.0)},
		{Name: "LI3490 油液位"},
		{Name: "TI3497 調溫後進 TFC 油溫", Range: Between(38.0, 48.0)},
		{Name: "PI3491.1 除霧風扇抽風壓力", Range: Between(-2.0, 10.0)},
		{Name: "PI3491.2 除霧風扇抽風壓力", Range: Between(0.0, 2.0)},
		{Name: "PI3497.4 gearbox lube oil pressure", Range: Between(1.8, 3.0)},
		{Name: "聯軸器 確認加熱器周圍是否有結冰"},
	}},
}

// both compressor trains carry the same instrument list
func compressorPoints() []PointSpec {
	return []PointSpec{
		{Name: "LTI11190 油液位"},
		{Name: "TI11190 油溫", Range: Between(50.0, 65.0)},
		{Name: "TI11161 油回水溫度", Range: Between(20.0, 35.0)},
		{Name: "TI11119 一段出水溫度", Range: Between(20.0, 40.0)},
		{Name: "TI11129 二段出水溫度", Range: Between(20.0, 40.0)},
		{Name: "TI11139 三段出水溫度", Range: Between(20.0, 40.0)},
		{Name: "馬達回水溫度", Range: Between(20.0, 40.0)},
		{Name: "PI202(1191) 油槽真空度", Range: Between(-10.0, -1.0)},
		{Name: "自動排水器功能"},
		{Name: "冷卻水進出口壓差", Range: Between(0.5, 1.5)},
	}
}

// PlantCatalog builds the catalog for PlantPoints.
func PlantCatalog() *Catalog {
	return MustCatalog(PlantPoints)
}
