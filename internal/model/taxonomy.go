package model

// UnitName 生产单元表 — 对应 unit_names
// 每个单元关联一组允许的工事区分（多对多）
type UnitName struct {
	ID   int    `gorm:"primaryKey"                       json:"id"`
	Name string `gorm:"type:varchar(50);not null;unique" json:"name"`
	BaseModel

	// 关联
	WorkTypes []WorkType `gorm:"many2many:unit_work_types;joinForeignKey:UnitID;joinReferences:WorkTypeID" json:"work_types,omitempty"`
}

// TableName 指定表名
func (UnitName) TableName() string { return "unit_names" }

// WorkType 工事区分表 — 对应 work_types
type WorkType struct {
	ID   int    `gorm:"primaryKey"                       json:"id"`
	Name string `gorm:"type:varchar(50);not null;unique" json:"name"`
	BaseModel
}

// TableName 指定表名
func (WorkType) TableName() string { return "work_types" }

// UnitWorkType 单元与工事区分的关联表 — 对应 unit_work_types
type UnitWorkType struct {
	ID         int `gorm:"primaryKey"                                json:"id"`
	UnitID     int `gorm:"not null;uniqueIndex:uq_unit_work_type"    json:"unit_id"`
	WorkTypeID int `gorm:"not null;uniqueIndex:uq_unit_work_type"    json:"work_type_id"`
}

// TableName 指定表名
func (UnitWorkType) TableName() string { return "unit_work_types" }
