package repo

// CALLING ASSIGNMENTS
const insertAssignmentQuery = `
INSERT INTO calling_assignments (id, tenant_id, member_name, position_name, current_stage, active)
VALUES ($1, $2, $3, $4, $5, TRUE)
RETURNING created_at, updated_at`

const assignmentColumns = `id, tenant_id, member_name, position_name, current_stage, active, created_at, updated_at`

const getAssignmentQuery = `SELECT ` + assignmentColumns + `
FROM calling_assignments
WHERE tenant_id = $1 AND id = $2`

const lockAssignmentQuery = getAssignmentQuery + `
FOR UPDATE`

const updateCurrentStageQuery = `
UPDATE calling_assignments
SET current_stage = $3, active = $4, updated_at = now()
WHERE tenant_id = $1 AND id = $2`

const insertTransitionQuery = `
INSERT INTO calling_transitions (assignment_id, tenant_id, stage, meeting_id, instruction)
VALUES ($1, $2, $3, $4, NULLIF($5, ''))
RETURNING id, recorded_at`

const listTransitionsQuery = `
SELECT id, assignment_id, tenant_id, stage, meeting_id, COALESCE(instruction, ''), recorded_at
FROM calling_transitions
WHERE tenant_id = $1 AND assignment_id = $2
ORDER BY recorded_at, id`

// MEETINGS
const insertMeetingQuery = `
INSERT INTO meetings (id, tenant_id, title, meeting_date, status)
VALUES ($1, $2, $3, $4, 'planned')
RETURNING created_at`

const meetingColumns = `id, tenant_id, title, meeting_date, status, completed_at, created_at`

const getMeetingQuery = `SELECT ` + meetingColumns + `
FROM meetings
WHERE tenant_id = $1 AND id = $2`

const lockMeetingQuery = getMeetingQuery + `
FOR UPDATE`

const completeMeetingQuery = `
UPDATE meetings
SET status = 'completed', completed_at = now()
WHERE tenant_id = $1 AND id = $2 AND status = 'planned'
RETURNING completed_at`

const insertBusinessLineQuery = `
INSERT INTO meeting_business_lines (tenant_id, meeting_id, assignment_id, member_name, calling_name, action_type)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (meeting_id, assignment_id, action_type) DO UPDATE
SET member_name = EXCLUDED.member_name, calling_name = EXCLUDED.calling_name
RETURNING id, created_at`

const listBusinessLinesQuery = `
SELECT id, tenant_id, meeting_id, assignment_id, member_name, calling_name, action_type, created_at
FROM meeting_business_lines
WHERE tenant_id = $1 AND meeting_id = $2
ORDER BY id`

// OUTBOX
const outboxColumns = `id, tenant_id, subject_type, subject_id, event_type, payload, status, revision, attempts,
COALESCE(last_error, ''), created_at, updated_at`

// upsert схлопывает факты по (tenant_id, event_key, subject_id): новая ревизия, снова pending
const upsertOutboxQuery = `
INSERT INTO outbox_entries (tenant_id, subject_type, subject_id, event_type, event_key, payload, status, revision, attempts)
VALUES ($1, $2, $3, $4, $5, ($6)::jsonb, 'pending', 1, 0)
ON CONFLICT (tenant_id, event_key, subject_id) DO UPDATE
SET subject_type = EXCLUDED.subject_type,
    event_type   = EXCLUDED.event_type,
    payload      = EXCLUDED.payload,
    status       = 'pending',
    revision     = outbox_entries.revision + 1,
    attempts     = 0,
    last_error   = NULL,
    updated_at   = now()
RETURNING id, status, revision, attempts, created_at, updated_at`

const claimNextPendingQuery = `
WITH picked AS (
	SELECT id
	FROM outbox_entries
	WHERE tenant_id = $1 AND status = 'pending'
	ORDER BY created_at, id
	FOR UPDATE SKIP LOCKED
	LIMIT 1
)
UPDATE outbox_entries AS o
SET status = 'processing', attempts = o.attempts + 1, updated_at = now()
FROM picked
WHERE o.id = picked.id
RETURNING o.id, o.tenant_id, o.subject_type, o.subject_id, o.event_type, o.payload, o.status, o.revision,
	o.attempts, COALESCE(o.last_error, ''), o.created_at, o.updated_at`

// settle только своей ревизии: если запись успели схлопнуть, она остаётся pending
const markProcessedQuery = `
UPDATE outbox_entries
SET status = 'processed', last_error = NULL, updated_at = now()
WHERE id = $1 AND revision = $2 AND status = 'processing'`

const markFailedQuery = `
UPDATE outbox_entries
SET status = 'failed', last_error = $3, updated_at = now()
WHERE id = $1 AND revision = $2 AND status = 'processing'`

const getOutboxEntryQuery = `SELECT ` + outboxColumns + `
FROM outbox_entries
WHERE tenant_id = $1 AND id = $2`

const requeueStaleProcessingQuery = `
UPDATE outbox_entries
SET status = 'pending', updated_at = now()
WHERE status = 'processing' AND updated_at < now() - $1::interval
RETURNING tenant_id, id`

const listStalePendingQuery = `
SELECT tenant_id, id
FROM outbox_entries
WHERE status = 'pending' AND updated_at < now() - $1::interval
ORDER BY updated_at, id
LIMIT $2`

const resetForRedeliveryQuery = `
UPDATE outbox_entries
SET status = 'pending', revision = revision + 1, attempts = 0, last_error = NULL, updated_at = now()
WHERE tenant_id = $1 AND id = $2 AND status IN ('processed', 'failed')
RETURNING ` + outboxColumns

// DELIVERY RECORDS
const deliveryColumns = `id, tenant_id, outbox_entry_id, revision, channel, status, attempted_at,
COALESCE(error_message, ''), COALESCE(external_ref, ''), created_at`

const insertDeliveryIfAbsentQuery = `
INSERT INTO delivery_records (tenant_id, outbox_entry_id, revision, channel, status)
VALUES ($1, $2, $3, $4, 'pending')
ON CONFLICT (outbox_entry_id, revision, channel) DO NOTHING`

const getDeliveryQuery = `SELECT ` + deliveryColumns + `
FROM delivery_records
WHERE outbox_entry_id = $1 AND revision = $2 AND channel = $3`

const settleDeliveryQuery = `
UPDATE delivery_records
SET status = $2, error_message = NULLIF($3, ''), external_ref = NULLIF($4, ''), attempted_at = now()
WHERE id = $1 AND status = 'pending'`

const listDeliveriesQuery = `
SELECT d.id, d.tenant_id, d.outbox_entry_id, d.revision, d.channel, d.status, d.attempted_at,
	COALESCE(d.error_message, ''), COALESCE(d.external_ref, ''), d.created_at,
	o.event_type, o.subject_type, o.subject_id, o.status, COALESCE(o.last_error, '')
FROM delivery_records AS d
JOIN outbox_entries AS o ON o.id = d.outbox_entry_id
WHERE d.tenant_id = $1
ORDER BY d.created_at DESC, d.id DESC
LIMIT $2`

// PUBLISH SNAPSHOTS
const nextSnapshotVersionQuery = `
SELECT COALESCE(MAX(version), 0) + 1
FROM publish_snapshots
WHERE meeting_id = $1`

const insertSnapshotQuery = `
INSERT INTO publish_snapshots (tenant_id, meeting_id, version, content)
VALUES ($1, $2, $3, $4)
RETURNING id, created_at`

const snapshotColumns = `id, tenant_id, meeting_id, version, content, created_at`

const latestSnapshotQuery = `SELECT ` + snapshotColumns + `
FROM publish_snapshots
WHERE tenant_id = $1 AND meeting_id = $2
ORDER BY version DESC
LIMIT 1`

const getSnapshotQuery = `SELECT ` + snapshotColumns + `
FROM publish_snapshots
WHERE tenant_id = $1 AND meeting_id = $2 AND version = $3`

const listSnapshotsQuery = `
SELECT id, tenant_id, meeting_id, version, created_at
FROM publish_snapshots
WHERE tenant_id = $1 AND meeting_id = $2
ORDER BY version`
