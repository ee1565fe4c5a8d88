package sqlinline

const QInsertSubmission = `--sql 501036c2-2812-4efe-a037-8610913b920a
insert into submissions (id, status, file_name, file_type, file_size, user_email)
values ($1, 'pending', $2, $3, $4, $5);
`

const QGetSubmission = `--sql aaf95ce8-7ce5-4758-9c1e-f07d5ce4c6ee
select
  s.id,
  s.status,
  s.file_name,
  s.file_type,
  s.file_size,
  s.user_email,
  s.rejection_reason,
  s.rejection_feedback,
  s.decided_by,
  s.decided_at,
  (select count(*) from validation_queue q where q.submission_id = s.id) as queue_count,
  s.created_at,
  s.updated_at
from submissions s
where s.id = $1;
`

const QListSubmissionsByStatus = `--sql b4222bcf-643d-47f8-9225-283af7af9ad1
select
  s.id,
  s.status,
  s.file_name,
  s.file_type,
  s.file_size,
  s.user_email,
  s.rejection_reason,
  s.rejection_feedback,
  s.decided_by,
  s.decided_at,
  (select count(*) from validation_queue q where q.submission_id = s.id) as queue_count,
  s.created_at,
  s.updated_at
from submissions s
where s.status = any($1::text[])
order by s.created_at asc;
`

// QListQueuedSubmissions serves the queued listing: queued is not a stored
// state, it is a pending submission at least one admin has claimed. Legacy
// rows that persisted 'queued' directly are included.
const QListQueuedSubmissions = `--sql 7c1f3c55-9f3e-4f6f-a8f0-6f5f3db1c2aa
select
  s.id,
  s.status,
  s.file_name,
  s.file_type,
  s.file_size,
  s.user_email,
  s.rejection_reason,
  s.rejection_feedback,
  s.decided_by,
  s.decided_at,
  (select count(*) from validation_queue q where q.submission_id = s.id) as queue_count,
  s.created_at,
  s.updated_at
from submissions s
where s.status = 'queued'
   or (s.status in ('pending', 'processing', 'submitted')
       and exists (select 1 from validation_queue q where q.submission_id = s.id))
order by s.created_at asc;
`

// QValidateSubmission flips a non-terminal submission to validated and clears
// every admin's queue entry in one statement, so the two effects are never
// visible independently. Zero rows back means the guard failed; the caller
// re-reads the row to tell not-found from already-terminal.
const QValidateSubmission = `--sql 49312b08-e750-4e4e-9b99-88129b943248
with target as (
  update submissions
  set status = 'validated',
      decided_by = $2,
      decided_at = now(),
      updated_at = now()
  where id = $1
    and status in ('pending', 'queued', 'processing', 'submitted')
  returning id
),
cleanup as (
  delete from validation_queue
  where submission_id in (select id from target)
)
select id from target;
`

// QRejectSubmission is the reject counterpart of QValidateSubmission; the
// shared guard keeps terminal states immutable under concurrent decisions.
const QRejectSubmission = `--sql 0871f7d6-0581-4380-9090-104e16bb1a4e
with target as (
  update submissions
  set status = 'rejected',
      rejection_reason = $3,
      rejection_feedback = $4,
      decided_by = $2,
      decided_at = now(),
      updated_at = now()
  where id = $1
    and status in ('pending', 'queued', 'processing', 'submitted')
  returning id
),
cleanup as (
  delete from validation_queue
  where submission_id in (select id from target)
)
select id from target;
`

const QSubmissionDecision = `--sql 3fb18fbe-ce2d-4a95-84c9-3fef97763429
select s.status, s.rejection_reason, s.rejection_feedback
from submissions s
where s.id = $1;
`
