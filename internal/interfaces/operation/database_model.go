package operation

import (
	"time"
)

type TrainingStatus string

const (
	TrainingActive    TrainingStatus = "ACTIVE"
	TrainingCompleted TrainingStatus = "COMPLETED"
	TrainingCancelled TrainingStatus = "ABGEBROCHEN"
)

type RegistrationStatus string

const (
	RegistrationPending   RegistrationStatus = "pending"
	RegistrationCompleted RegistrationStatus = "completed"
)

type SlotStatus string

const (
	SlotAvailable SlotStatus = "AVAILABLE"
	SlotBooked    SlotStatus = "BOOKED"
)

type CheckrideResult string

const (
	CheckrideIncomplete CheckrideResult = "INCOMPLETE"
	CheckridePassed     CheckrideResult = "PASSED"
	CheckrideFailed     CheckrideResult = "FAILED"
)

type User struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	Cid        int       `gorm:"uniqueIndex;not null" json:"cid"`
	Name       string    `gorm:"size:128;not null" json:"name"`
	Email      string    `gorm:"size:128" json:"email"`
	Password   string    `gorm:"size:128" json:"-"` // set for seeded staff accounts only
	Role       Role      `gorm:"size:32;not null;default:VISITOR" json:"role"`
	UserStatus string    `gorm:"size:64" json:"user_status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"-"`
}

type Registration struct {
	ID          uint               `gorm:"primarykey" json:"id"`
	Cid         int                `gorm:"uniqueIndex;not null" json:"cid"`
	Simulator   string             `gorm:"size:64;not null" json:"simulator"`
	Aircraft    string             `gorm:"size:64;not null" json:"aircraft"`
	PilotClient string             `gorm:"size:64;not null" json:"pilot_client"`
	Experience  string             `gorm:"type:text;not null" json:"experience"`
	Schedule    string             `gorm:"type:text;not null" json:"schedule"`
	Remarks     string             `gorm:"type:text" json:"remarks"`
	Status      RegistrationStatus `gorm:"size:16;not null;default:pending" json:"status"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"-"`
}

type Training struct {
	ID                   uint               `gorm:"primarykey" json:"id"`
	TraineeID            uint               `gorm:"index;not null" json:"trainee_id"`
	Trainee              *User              `gorm:"foreignKey:TraineeID;references:ID" json:"trainee,omitempty"`
	Status               TrainingStatus     `gorm:"size:16;not null;default:ACTIVE" json:"status"`
	ReadyForCheckride    bool               `gorm:"not null;default:false" json:"ready_for_checkride"`
	CheckrideRequestText string             `gorm:"type:text" json:"checkride_request_text"`
	ReadyRequestedAt     *time.Time         `json:"ready_requested_at"`
	CancellationReason   string             `gorm:"type:text" json:"cancellation_reason"`
	CancelledAt          *time.Time         `json:"cancelled_at"`
	Mentors              []*TrainingMentor  `gorm:"foreignKey:TrainingID;references:ID" json:"mentors"`
	Sessions             []*TrainingSession `gorm:"foreignKey:TrainingID;references:ID" json:"-"`
	CreatedAt            time.Time          `json:"created_at"`
	UpdatedAt            time.Time          `json:"-"`
}

// MaxMentorsPerTraining is the hard cap on TrainingMentor rows per Training.
const MaxMentorsPerTraining = 3

type TrainingMentor struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	TrainingID uint      `gorm:"uniqueIndex:training_mentor;not null" json:"training_id"`
	MentorID   uint      `gorm:"uniqueIndex:training_mentor;not null" json:"mentor_id"`
	Mentor     *User     `gorm:"foreignKey:MentorID;references:ID" json:"mentor,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"-"`
}

type TrainingSession struct {
	ID          uint                    `gorm:"primarykey" json:"id"`
	TrainingID  uint                    `gorm:"index;not null" json:"training_id"`
	MentorID    uint                    `gorm:"index;not null" json:"mentor_id"`
	LessonType  string                  `gorm:"size:64;not null" json:"lesson_type"`
	SessionDate time.Time               `gorm:"not null" json:"session_date"`
	Comments    string                  `gorm:"type:text" json:"comments"`
	IsDraft     bool                    `gorm:"not null;default:true" json:"is_draft"`
	ReleasedAt  *time.Time              `json:"released_at"`
	Topics      []*TrainingSessionTopic `gorm:"foreignKey:SessionID;references:ID" json:"topics"`
	CreatedAt   time.Time               `json:"created_at"`
	UpdatedAt   time.Time               `json:"-"`
}

type TrainingSessionTopic struct {
	ID              uint      `gorm:"primarykey" json:"id"`
	SessionID       uint      `gorm:"index;not null" json:"session_id"`
	Topic           string    `gorm:"size:64;not null" json:"topic"`
	Checked         bool      `gorm:"not null;default:false" json:"checked"`
	TheoryCovered   bool      `gorm:"not null;default:false" json:"theory_covered"`
	PracticeCovered bool      `gorm:"not null;default:false" json:"practice_covered"`
	CoverageMode    string    `gorm:"size:16" json:"coverage_mode"`
	Comment         string    `gorm:"type:text" json:"comment"`
	SortOrder       int       `gorm:"not null;default:0" json:"order"`
	CreatedAt       time.Time `json:"-"`
	UpdatedAt       time.Time `json:"-"`
}

// AvailabilitySlotDuration is the fixed length of an examiner slot.
const AvailabilitySlotDuration = 2 * time.Hour

type CheckrideAvailability struct {
	ID         uint       `gorm:"primarykey" json:"id"`
	ExaminerID uint       `gorm:"index;not null" json:"examiner_id"`
	Examiner   *User      `gorm:"foreignKey:ExaminerID;references:ID" json:"examiner,omitempty"`
	StartTime  time.Time  `gorm:"not null" json:"start_time"`
	EndTime    time.Time  `gorm:"not null" json:"end_time"`
	Status     SlotStatus `gorm:"size:16;not null;default:AVAILABLE" json:"status"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"-"`
}

type Checkride struct {
	ID             uint                   `gorm:"primarykey" json:"id"`
	TraineeID      uint                   `gorm:"index;not null" json:"trainee_id"`
	TrainingID     uint                   `gorm:"index;not null" json:"training_id"`
	AvailabilityID uint                   `gorm:"index;not null" json:"availability_id"`
	Availability   *CheckrideAvailability `gorm:"foreignKey:AvailabilityID;references:ID" json:"availability,omitempty"`
	ScheduledDate  time.Time              `gorm:"not null" json:"scheduled_date"`
	Result         CheckrideResult        `gorm:"size:16;not null;default:INCOMPLETE" json:"result"`
	IsDraft        bool                   `gorm:"not null;default:true" json:"is_draft"`
	ReleasedAt     *time.Time             `json:"released_at"`
	Assessment     *CheckrideAssessment   `gorm:"foreignKey:CheckrideID;references:ID" json:"assessment,omitempty"`
	CreatedAt      time.Time              `json:"created_at"`
	UpdatedAt      time.Time              `json:"-"`
}

type CheckrideAssessment struct {
	ID             uint            `gorm:"primarykey" json:"id"`
	CheckrideID    uint            `gorm:"uniqueIndex;not null" json:"checkride_id"`
	FlightPlanning string          `gorm:"type:text" json:"flight_planning"`
	Airmanship     string          `gorm:"type:text" json:"airmanship"`
	Communication  string          `gorm:"type:text" json:"communication"`
	Procedures     string          `gorm:"type:text" json:"procedures"`
	OverallResult  CheckrideResult `gorm:"size:16;not null;default:INCOMPLETE" json:"overall_result"`
	ExaminerNotes  string          `gorm:"type:text" json:"examiner_notes"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"-"`
}

// MentorInviteTTL bounds how long an invite link stays redeemable.
const MentorInviteTTL = 72 * time.Hour

type MentorInvite struct {
	ID          uint       `gorm:"primarykey" json:"id"`
	Token       string     `gorm:"size:64;uniqueIndex;not null" json:"-"`
	MentorID    uint       `gorm:"index;not null" json:"mentor_id"`
	TraineeCid  int        `gorm:"index;not null" json:"trainee_cid"`
	Anmeldetext string     `gorm:"type:text" json:"anmeldetext"`
	ExpiresAt   time.Time  `gorm:"not null" json:"expires_at"`
	UsedAt      *time.Time `json:"used_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"-"`
}
