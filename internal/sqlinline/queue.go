package sqlinline

// QEnqueueAdvisory inserts a queue entry only while the submission is still
// undecided. Zero rows back means the entry already exists, the submission is
// terminal, or the id is unknown; the caller classifies with the probes below.
const QEnqueueAdvisory = `--sql c8ed40e4-e368-4096-93e6-c2a7865c3356
insert into validation_queue (submission_id, admin_email)
select s.id, $2
from submissions s
where s.id = $1
  and s.status in ('pending', 'queued', 'processing', 'submitted')
on conflict (submission_id, admin_email) do nothing
returning submission_id;
`

// QEnqueueExclusive additionally refuses the insert while any other admin
// holds an entry for the submission.
const QEnqueueExclusive = `--sql 11fe6f2e-a6ed-40e0-85a8-ba3780103d26
insert into validation_queue (submission_id, admin_email)
select s.id, $2
from submissions s
where s.id = $1
  and s.status in ('pending', 'queued', 'processing', 'submitted')
  and not exists (
    select 1 from validation_queue q
    where q.submission_id = s.id and q.admin_email <> $2
  )
on conflict (submission_id, admin_email) do nothing
returning submission_id;
`

const QQueueEntryExists = `--sql 13b928d9-a82e-4902-ba5c-69ac3491774f
select exists (
  select 1 from validation_queue
  where submission_id = $1 and admin_email = $2
);
`

const QQueueHeldByOther = `--sql 700aa86c-24dc-4b9b-a665-ff29f6e3ec55
select exists (
  select 1 from validation_queue
  where submission_id = $1 and admin_email <> $2
);
`

const QDequeue = `--sql 8c39f706-2986-4691-8193-afab3c0157bf
delete from validation_queue
where submission_id = $1 and admin_email = $2;
`

const QListQueueForAdmin = `--sql 2cbc012a-6464-4344-b3f3-d788fe418fb8
select submission_id, admin_email, created_at
from validation_queue
where admin_email = $1
order by created_at asc, submission_id asc;
`

const QDequeueAllForSubmission = `--sql 91023354-865a-4081-8b5b-0c775bdc858b
delete from validation_queue
where submission_id = $1;
`
